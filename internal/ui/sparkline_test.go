package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"nil data", nil, 10, ""},
		{"zero width", []float64{1, 2}, 0, ""},
		{"negative width", []float64{1, 2}, -3, ""},
		{"flat uses middle level", []float64{7, 7, 7}, 10, "▅▅▅"},
		{"scaled to window", []float64{0, 2, 4, 8}, 10, "▁▂▄█"},
		{"keeps most recent", []float64{100, 0, 50, 100}, 3, "▁▄█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSparkline(tt.data, tt.width, ColorNeonGreen))
		})
	}
}

func TestRenderSparkline_NoColor(t *testing.T) {
	assert.Equal(t, "▁█", RenderSparkline([]float64{1, 2}, 5, ""))
}
