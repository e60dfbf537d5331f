package monitor

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/powerdash/internal/series"
)

// Braille character rendering for high-resolution terminal charts.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// brailleDots maps [row][col] within a cell to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// timeLabelLayout is used for the chart's time axis.
const timeLabelLayout = "15:04:05"

// ChartLine is one location's series on a shared chart.
type ChartLine struct {
	Label   string
	Color   lipgloss.Color
	Samples []series.Sample
}

// brailleCanvas is a grid of braille cells addressed in dot coordinates,
// with (0,0) at the bottom left.
type brailleCanvas struct {
	cols, rows int
	cells      [][]rune
	colors     [][]lipgloss.Color
}

func newBrailleCanvas(cols, rows int) *brailleCanvas {
	c := &brailleCanvas{cols: cols, rows: rows}
	c.cells = make([][]rune, rows)
	c.colors = make([][]lipgloss.Color, rows)
	for r := range c.cells {
		c.cells[r] = make([]rune, cols)
		c.colors[r] = make([]lipgloss.Color, cols)
		for i := range c.cells[r] {
			c.cells[r][i] = brailleBase
		}
	}
	return c
}

func (c *brailleCanvas) dotWidth() int  { return c.cols * 2 }
func (c *brailleCanvas) dotHeight() int { return c.rows * 4 }

// set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *brailleCanvas) set(x, y int, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.dotWidth() || y >= c.dotHeight() {
		return
	}
	row := c.rows - 1 - y/4
	subRow := 3 - y%4
	col := x / 2
	c.cells[row][col] |= rune(1 << brailleDots[subRow][x%2])
	c.colors[row][col] = color
}

// line draws a segment by stepping along the longer axis.
func (c *brailleCanvas) line(x0, y0, x1, y1 int, color lipgloss.Color) {
	dx, dy := x1-x0, y1-y0
	steps := absInt(dx)
	if absInt(dy) > steps {
		steps = absInt(dy)
	}
	if steps == 0 {
		c.set(x0, y0, color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(x0+int(math.Round(float64(dx)*t)), y0+int(math.Round(float64(dy)*t)), color)
	}
}

// row renders one text row with per-cell colors.
func (c *brailleCanvas) row(r int) string {
	var b strings.Builder
	for i, ch := range c.cells[r] {
		if ch == brailleBase || c.colors[r][i] == "" {
			b.WriteRune(ch)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(c.colors[r][i]).Render(string(ch)))
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// project maps a sample into canvas dot coordinates using the axis range.
func project(s series.Sample, rng series.AxisRange, w, h int) (int, int) {
	span := rng.TimeMax.Sub(rng.TimeMin)
	fx := 0.0
	if span > 0 {
		fx = float64(s.Timestamp.Sub(rng.TimeMin)) / float64(span)
	}
	fy := 0.0
	if rng.ValueMax > rng.ValueMin {
		fy = (s.Value - rng.ValueMin) / (rng.ValueMax - rng.ValueMin)
	}
	fx = clampUnit(fx)
	fy = clampUnit(fy)
	return int(math.Round(fx * float64(w-1))), int(math.Round(fy * float64(h-1)))
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// formatAxisValue renders a value label like "1.2 kW".
func formatAxisValue(v float64, unit string) string {
	return humanize.SIWithDigits(v, 1, unit)
}

// RenderChart plots every line on a shared axis. width and height are the
// outer dimensions in cells; the value labels, time labels and legend are
// carved out of them. Lines with no samples are listed in the legend only.
func RenderChart(lines []ChartLine, rng series.AxisRange, unit string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	top := formatAxisValue(rng.ValueMax, unit)
	mid := formatAxisValue((rng.ValueMax+rng.ValueMin)/2, unit)
	bottom := formatAxisValue(rng.ValueMin, unit)
	labelW := maxInt(lipgloss.Width(top), lipgloss.Width(mid), lipgloss.Width(bottom))

	plotW := width - labelW - 2
	plotH := height - 3 // x axis, time labels, legend
	if plotW < 4 || plotH < 1 {
		return MutedStyle.Render("Terminal too small for chart")
	}

	canvas := newBrailleCanvas(plotW, plotH)
	for _, l := range lines {
		prevX, prevY, havePrev := 0, 0, false
		for _, s := range l.Samples {
			x, y := project(s, rng, canvas.dotWidth(), canvas.dotHeight())
			if havePrev {
				canvas.line(prevX, prevY, x, y, l.Color)
			} else {
				canvas.set(x, y, l.Color)
			}
			prevX, prevY, havePrev = x, y, true
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	labelStyle := LabelStyle.Width(labelW).Align(lipgloss.Right)

	out := make([]string, 0, height)
	for r := 0; r < plotH; r++ {
		label := ""
		switch r {
		case 0:
			label = top
		case plotH / 2:
			label = mid
		case plotH - 1:
			label = bottom
		}
		out = append(out, labelStyle.Render(label)+axisStyle.Render(" ┤")+canvas.row(r))
	}

	out = append(out, strings.Repeat(" ", labelW+1)+axisStyle.Render("└"+strings.Repeat("─", plotW)))

	start := rng.TimeMin.Format(timeLabelLayout)
	end := rng.TimeMax.Format(timeLabelLayout)
	gap := plotW - len(start) - len(end)
	if gap < 1 {
		gap = 1
	}
	out = append(out, strings.Repeat(" ", labelW+2)+MutedStyle.Render(start+strings.Repeat(" ", gap)+end))

	legend := make([]string, 0, len(lines))
	for _, l := range lines {
		legend = append(legend, lipgloss.NewStyle().Foreground(l.Color).Render("●")+" "+LabelStyle.Render(l.Label))
	}
	out = append(out, strings.Repeat(" ", labelW+2)+strings.Join(legend, "  "))

	return strings.Join(out, "\n")
}

func maxInt(vals ...int) int {
	m := 0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
