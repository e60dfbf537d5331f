package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/powerdash/internal/gauge"
	"github.com/rileyhilliard/powerdash/internal/schedule"
)

// Detail view styles
var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(0, 2)

	gaugeLabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Width(4)

	gaugeValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Width(10).
			Align(lipgloss.Right)

	cursorStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// gaugeBarWidth bounds the bar drawn for one gauge.
const (
	minGaugeBar = 10
	maxGaugeBar = 40
)

// renderDetailView renders the selected location's gauges, device control
// and schedules, scrolled through the detail viewport when it is ready.
func (m Model) renderDetailView() string {
	ls := m.selectedLocation()
	if ls == nil {
		return LabelStyle.Render("No location selected")
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(ls))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderDetailBody())
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}
	b.WriteString(m.renderDetailFooter())
	return b.String()
}

// renderDetailHeader renders the location name, status and topic.
func (m Model) renderDetailHeader(ls *locationState) string {
	glyph, glyphStyle := statusGlyph(ls.status)
	title := lipgloss.NewStyle().Foreground(ls.color).Bold(true).Render(ls.loc.Name)
	return HeaderStyle.Render(fmt.Sprintf("%s  %s  %s",
		title,
		glyphStyle.Render(glyph+" "+ls.status.String()),
		MutedStyle.Render("topic "+ls.loc.Topic)))
}

// renderDetailBody renders the scrollable part of the detail view.
func (m Model) renderDetailBody() string {
	ls := m.selectedLocation()
	if ls == nil {
		return ""
	}

	width := m.contentWidth() - 4
	var sections []string
	for _, q := range gauge.Quantities {
		sections = append(sections, m.renderGaugeSection(ls, q, width))
	}
	sections = append(sections, m.renderDeviceSection(ls, width))
	sections = append(sections, m.renderScheduleSection(ls, width))

	return detailContainerStyle.Render(strings.Join(sections, "\n"))
}

// renderGaugeSection renders the three phase gauges of one quantity.
func (m Model) renderGaugeSection(ls *locationState, q gauge.Quantity, width int) string {
	row := ls.gauges.Row(q)
	lines := []string{SectionHeader(q.String(), "0 - "+formatQuantity(row[0].Max(), q.Unit()), width)}
	for i, a := range row {
		lines = append(lines, SectionContentLine(renderGauge(fmt.Sprintf("L%d", i+1), a, q.Unit(), width), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderGauge draws one animated gauge: label, current value, a bar at the
// normalized position and the Low/Medium/High band.
func renderGauge(label string, a *gauge.Animator, unit string, width int) string {
	barWidth := width - 4 - 4 - 10 - 2 - 8
	if barWidth < minGaugeBar {
		barWidth = minGaugeBar
	}
	if barWidth > maxGaugeBar {
		barWidth = maxGaugeBar
	}

	bucket := a.Bucket()
	color := BucketColor(bucket)
	filled := int(a.NormalizedPosition()*float64(barWidth) + 0.5)
	if filled > barWidth {
		filled = barWidth
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		MutedStyle.Render(strings.Repeat("─", barWidth-filled))

	return gaugeLabelStyle.Render(label) +
		gaugeValueStyle.Render(fmt.Sprintf("%.1f %s", a.Current(), unit)) +
		"  " + bar + "  " +
		lipgloss.NewStyle().Foreground(color).Render(bucket.String())
}

// renderDeviceSection shows the last commanded device state.
func (m Model) renderDeviceSection(ls *locationState, width int) string {
	state := MutedStyle.Render("unknown")
	if ls.motorKnown {
		if ls.motorOn {
			state = lipgloss.NewStyle().Foreground(ColorHealthy).Bold(true).Render("ON")
		} else {
			state = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true).Render("OFF")
		}
	}
	return strings.Join([]string{
		SectionHeader("Device", "m: toggle", width),
		SectionContentLine(LabelStyle.Render("Motor ")+state, width),
		SectionFooter(width),
	}, "\n")
}

// renderScheduleSection lists the location's schedules with a cursor.
func (m Model) renderScheduleSection(ls *locationState, width int) string {
	all := ls.book.All()
	lines := []string{SectionHeader("Schedules", fmt.Sprintf("%d", len(all)), width)}
	if len(all) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("No schedules. Add one with 'powerdash schedule add'."), width))
	}

	now := m.now()
	for i, s := range all {
		cursor := "  "
		if i == m.schedCursor {
			cursor = cursorStyle.Render("› ")
		}
		mark := MutedStyle.Render("○ paused")
		if s.Active {
			mark = lipgloss.NewStyle().Foreground(ColorHealthy).Render("● active")
		}
		line := cursor + ValueStyle.Render(s.Label()) + "  " + mark
		if s.Active && s.Contains(schedule.ClockOf(now)) {
			line += "  " + NoticeStyle.Render("running now")
		}
		lines = append(lines, SectionContentLine(line, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderDetailFooter renders navigation hints for the detail view.
func (m Model) renderDetailFooter() string {
	hints := []string{
		"esc back",
		"m device",
		"space schedule",
		"↑↓ move",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
