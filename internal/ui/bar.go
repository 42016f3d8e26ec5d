package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderGauge renders a horizontal usage bar of the given width, filled in
// proportion to percent and colored by its threshold. Percent is clamped to
// [0, 100] and width to at least 1.
func RenderGauge(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	color := ThresholdColor(percent)
	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var sb strings.Builder
	sb.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	sb.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return sb.String()
}

// RenderLabeledGauge renders "label [bar] NN.N%" with the percentage styled
// by the same threshold color as the bar.
func RenderLabeledGauge(label string, width int, percent float64) string {
	pct := lipgloss.NewStyle().
		Foreground(ThresholdColor(percent)).
		Render(fmt.Sprintf("%5.1f%%", percent))
	return fmt.Sprintf("%s [%s] %s", label, RenderGauge(width, percent), pct)
}
