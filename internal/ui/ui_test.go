package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Pin the color profile so rendered output is byte-stable regardless of
	// the terminal the tests run in.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestThresholdColor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    lipgloss.Color
	}{
		{"idle", 0, ColorSuccess},
		{"below warning", 49.9, ColorSuccess},
		{"warning boundary", 50, ColorWarning},
		{"below critical", 79.9, ColorWarning},
		{"critical boundary", 80, ColorError},
		{"saturated", 100, ColorError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThresholdColor(tt.percent))
		})
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10))
	})

	t.Run("zero width", func(t *testing.T) {
		assert.Empty(t, RenderSparkline([]float64{1, 2}, 0))
	})

	t.Run("levels track magnitude", func(t *testing.T) {
		out := RenderSparkline([]float64{0, 50, 100}, 10)
		assert.Equal(t, "▁▄█", out)
	})

	t.Run("keeps only most recent width points", func(t *testing.T) {
		out := RenderSparkline([]float64{100, 100, 0, 0}, 2)
		assert.Equal(t, "▁▁", out)
	})

	t.Run("out of range clamped", func(t *testing.T) {
		out := RenderSparkline([]float64{-10, 250}, 10)
		assert.Equal(t, "▁█", out)
	})
}

func TestRenderGauge(t *testing.T) {
	t.Run("fill proportional to percent", func(t *testing.T) {
		out := RenderGauge(10, 50)
		assert.Equal(t, 5, strings.Count(out, "█"))
		assert.Equal(t, 5, strings.Count(out, "░"))
	})

	t.Run("clamps negative percent", func(t *testing.T) {
		out := RenderGauge(4, -20)
		assert.Equal(t, "░░░░", out)
	})

	t.Run("clamps over 100", func(t *testing.T) {
		out := RenderGauge(4, 250)
		assert.Equal(t, "████", out)
	})

	t.Run("width floor of one", func(t *testing.T) {
		assert.Equal(t, "█", RenderGauge(0, 100))
	})
}

func TestRenderLabeledGauge(t *testing.T) {
	out := RenderLabeledGauge("CPU", 10, 42.5)
	assert.Contains(t, out, "CPU [")
	assert.Contains(t, out, " 42.5%")
}
