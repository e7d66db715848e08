// Package output provides styled terminal rendering helpers for platovue.
package output

import "github.com/charmbracelet/lipgloss"

// Palette. Maintainability bands run green, orange, red; yellow is kept for
// warnings so a moderate score never reads as a diagnostic.
var (
	ColorAccent   = lipgloss.Color("#64b5f6")
	ColorHealthy  = lipgloss.Color("#66bb6a")
	ColorModerate = lipgloss.Color("#ffb74d")
	ColorPoor     = lipgloss.Color("#ef5350")
	ColorCaution  = lipgloss.Color("#fff59d")
	ColorMuted    = lipgloss.Color("#888888")
)

// Styles shared by the report, history and watch renderers. They are
// rebuilt by SetNoColor.
var (
	StyleHeader   lipgloss.Style // section headers
	StyleSuccess  lipgloss.Style // excellent and good scores, improvements
	StyleModerate lipgloss.Style // moderate scores
	StyleError    lipgloss.Style // low scores, regressions, fatal errors
	StyleWarning  lipgloss.Style // warnings and skipped files
	StyleMuted    lipgloss.Style // secondary text and rules
	StyleBold     lipgloss.Style
)

var noColor bool

func init() {
	applyStyles(true)
}

func applyStyles(color bool) {
	fg := func(c lipgloss.Color) lipgloss.Style {
		if !color {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	StyleHeader = fg(ColorAccent)
	StyleSuccess = fg(ColorHealthy)
	StyleModerate = fg(ColorModerate)
	StyleError = fg(ColorPoor)
	StyleWarning = fg(ColorCaution)
	StyleMuted = fg(ColorMuted)
	StyleBold = lipgloss.NewStyle()
	if color {
		StyleHeader = StyleHeader.Bold(true)
		StyleBold = StyleBold.Bold(true)
	}
}

// SetNoColor disables or re-enables styled output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(!disabled)
}

// IsNoColor reports whether styled output is disabled.
func IsNoColor() bool {
	return noColor
}

// ScoreStyle picks the band style for a 0-100 maintainability index using
// the report's tier boundaries.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 65:
		return StyleSuccess
	case score >= 50:
		return StyleModerate
	default:
		return StyleError
	}
}
