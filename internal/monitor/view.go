package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/powerdash/internal/series"
	"github.com/rileyhilliard/powerdash/internal/util"
)

// Chart sizing
const (
	defaultWidth     = 80
	minChartHeight   = 8
	maxChartHeight   = 20
	defaultCardWidth = 34
)

// renderDashboard renders the header, shared chart, location cards and footer.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderChartSection())
	b.WriteString("\n\n")

	b.WriteString(m.renderLocationCards())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	updateText := "waiting for data"
	if !m.lastUpdate.IsZero() {
		updateText = "last update " + humanize.RelTime(m.lastUpdate, m.now(), "ago", "from now")
	}

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("powerdash")

	statsText := fmt.Sprintf(" | %d %s | %d online | %s",
		len(m.locations), util.Pluralize(len(m.locations), "location", "locations"), m.OnlineCount(), updateText)
	if m.streamEnded {
		statsText += " | telemetry stopped"
	}
	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(statsText)

	return HeaderStyle.Render(title + stats)
}

// chartLines collects every location's total channel for meas.
func (m Model) chartLines(meas series.Measurement) []ChartLine {
	lines := make([]ChartLine, 0, len(m.locations))
	for _, ls := range m.locations {
		lines = append(lines, ChartLine{
			Label:   ls.loc.Name,
			Color:   ls.color,
			Samples: ls.series.Samples(meas, series.Total),
		})
	}
	return lines
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) chartHeight() int {
	h := m.height / 2
	if h < minChartHeight {
		h = minChartHeight
	}
	if h > maxChartHeight {
		h = maxChartHeight
	}
	return h
}

// chartTitle names the aggregate shown, e.g. "Power (total)".
func chartTitle(meas series.Measurement) string {
	if meas == series.Voltage {
		return meas.Title() + " (phase average)"
	}
	return meas.Title() + " (total)"
}

// renderChartSection renders the selected measurement for every location on one axis.
func (m Model) renderChartSection() string {
	width := m.contentWidth()
	header := SectionHeader(chartTitle(m.chart), "c: "+m.chart.Next().Title(), width)

	rng, ok := m.AxisRange(m.chart)
	if !ok {
		return header + "\n" + SectionContentLine(MutedStyle.Render("Waiting for telemetry..."), width) + "\n" + SectionFooter(width)
	}
	return header + "\n" + RenderChart(m.chartLines(m.chart), rng, m.chart.Unit(), width, m.chartHeight())
}

// renderLocationCards renders the grid of location cards.
func (m Model) renderLocationCards() string {
	if len(m.locations) == 0 {
		return LabelStyle.Render("No locations configured")
	}

	cardWidth := m.cardWidth()
	cards := make([]string, 0, len(m.locations))
	for i, ls := range m.locations {
		cards = append(cards, m.renderCard(ls, cardWidth, i == m.selected))
	}

	perRow := m.LayoutColumns()
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cardWidth divides the terminal between the cards of one row.
func (m Model) cardWidth() int {
	if m.width <= 0 {
		return defaultCardWidth
	}
	// border (2) + padding (2) + margin (1) per card
	w := m.width/m.LayoutColumns() - 5
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderNotice() string {
	if m.noticeErr {
		return ErrorTextStyle.Render(" " + m.notice)
	}
	return NoticeStyle.Render(" " + m.notice)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"c chart",
		"↑↓ select",
		"enter detail",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// formatQuantity renders a value with an SI prefix, e.g. "1.2 kW".
func formatQuantity(v float64, unit string) string {
	return humanize.SIWithDigits(v, 1, unit)
}
