package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, using ANSI codes for broad
// terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// ThresholdColor returns the gauge color for a usage percentage:
// under 50 green, under 80 yellow, otherwise red.
func ThresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent < 50:
		return ColorSuccess
	case percent < 80:
		return ColorWarning
	default:
		return ColorError
	}
}
