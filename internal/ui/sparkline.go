package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline creates a sparkline from a slice of percentage values.
// The width parameter determines how many of the most recent data points to
// display; values are mapped to 8 vertical levels over the fixed 0-100
// range so consecutive frames scale consistently. The whole line is colored
// by the last value's threshold.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 4)

	numLevels := len(sparklineBlockRunes)
	for _, v := range data {
		level := int(v / 100 * float64(numLevels-1))
		if level < 0 {
			level = 0
		} else if level >= numLevels {
			level = numLevels - 1
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	color := ThresholdColor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
