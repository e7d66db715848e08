package output

import (
	"fmt"
	"math"
	"strings"
)

const (
	defaultBarWidth = 20
	sectionWidth    = 66
)

// ScoreBar renders a 0-100 maintainability index as a bar in its band
// color, e.g. "████████░░ 80/100". Scores outside the range fill the bar
// completely or not at all.
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	filled := int(math.Max(0, math.Min(float64(width), score/100*float64(width))))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return ScoreStyle(score).Render(bar) + " " + StyleMuted.Render(fmt.Sprintf("%.0f/100", score))
}

// TrendArrow renders a change between two runs: "▲ +1.50", "▼ -2.25" or a
// dash for no change. higherIsBetter decides which direction is colored as
// an improvement.
func TrendArrow(delta float64, higherIsBetter bool) string {
	switch {
	case delta == 0:
		return StyleMuted.Render("─")
	case delta > 0 == higherIsBetter:
		return StyleSuccess.Render(formatDelta(delta))
	default:
		return StyleError.Render(formatDelta(delta))
	}
}

func formatDelta(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("▲ +%.2f", delta)
	}
	return fmt.Sprintf("▼ %.2f", delta)
}

// Section returns a styled section header over a horizontal rule.
func Section(title string) string {
	return "\n " + StyleHeader.Render(title) + "\n " + StyleMuted.Render(strings.Repeat("─", sectionWidth))
}
