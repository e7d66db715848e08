package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBar(t *testing.T) {
	SetNoColor(true)

	tests := []struct {
		name   string
		score  float64
		width  int
		filled int
		label  string
	}{
		{"full", 100, 10, 10, "100/100"},
		{"half", 50, 10, 5, "50/100"},
		{"clamped high", 171, 10, 10, "171/100"},
		{"clamped low", -5, 10, 0, "-5/100"},
		{"default width", 50, 0, 10, "50/100"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreBar(tc.score, tc.width)
			assert.Equal(t, tc.filled, strings.Count(got, "█"))
			assert.True(t, strings.HasSuffix(got, tc.label), "got %q", got)
		})
	}
}

func TestTrendArrow(t *testing.T) {
	SetNoColor(true)

	assert.Equal(t, "─", TrendArrow(0, true))
	assert.Equal(t, "▲ +1.50", TrendArrow(1.5, true))
	assert.Equal(t, "▼ -2.25", TrendArrow(-2.25, true))
}

func TestSection(t *testing.T) {
	SetNoColor(true)

	got := Section("Summary")
	assert.Contains(t, got, "Summary")
	assert.Contains(t, got, strings.Repeat("─", 66))
}

func TestScoreStyle_FollowsTiers(t *testing.T) {
	SetNoColor(false)
	defer SetNoColor(true)

	assert.Equal(t, StyleSuccess.GetForeground(), ScoreStyle(90).GetForeground())
	assert.Equal(t, StyleSuccess.GetForeground(), ScoreStyle(65).GetForeground())
	assert.Equal(t, StyleModerate.GetForeground(), ScoreStyle(64.9).GetForeground())
	assert.Equal(t, StyleError.GetForeground(), ScoreStyle(49.9).GetForeground())
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "▲ +0.50", formatDelta(0.5))
	assert.Equal(t, "▼ -0.50", formatDelta(-0.5))
}
