package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/powerdash/internal/series"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

// renderCard renders one location's summary: status, latest totals, a
// sparkline of the charted measurement and when data last arrived.
func (m Model) renderCard(ls *locationState, width int, selected bool) string {
	// content area inside the card's horizontal padding
	inner := width - 2

	glyph, glyphStyle := statusGlyph(ls.status)
	name := lipgloss.NewStyle().Foreground(ls.color).Bold(true).Render(ls.loc.Name)
	status := MutedStyle.Render(ls.status.String())

	lines := []string{
		padBetween(glyphStyle.Render(glyph)+" "+name, status, inner),
		m.renderCardTotals(ls),
	}

	spark := ui.RenderSparkline(ls.series.Values(m.chart, series.Total), inner, ls.color)
	if spark == "" {
		spark = MutedStyle.Render("no data yet")
	}
	lines = append(lines, spark)

	seen := "never"
	if !ls.lastSeen.IsZero() {
		seen = humanize.RelTime(ls.lastSeen, m.now(), "ago", "from now")
	}
	footer := MutedStyle.Render("seen " + seen)
	if ls.book.ActiveAt(m.now()) {
		footer = padBetween(footer, NoticeStyle.Render("scheduled"), inner)
	}
	lines = append(lines, footer)

	if ls.lastErr != "" {
		lines = append(lines, ErrorTextStyle.Render(truncate(ls.lastErr, inner)))
	}

	style := CardStyle
	if selected {
		style = CardSelectedStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderCardTotals shows the newest power, voltage and current aggregates.
func (m Model) renderCardTotals(ls *locationState) string {
	parts := make([]string, 0, len(series.Measurements))
	for _, meas := range series.Measurements {
		value := "--"
		if s, ok := ls.series.Newest(meas, series.Total); ok {
			value = formatQuantity(s.Value, meas.Unit())
		}
		style := ValueStyle
		if meas == m.chart {
			style = style.Bold(true)
		}
		parts = append(parts, style.Render(value))
	}
	return strings.Join(parts, MutedStyle.Render(" · "))
}

// padBetween places left and right at the edges of width.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// truncate shortens s to width cells with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
