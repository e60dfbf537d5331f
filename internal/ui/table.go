package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a CLI table. A zero Width fits the column to
// its widest cell.
type TableColumn struct {
	Title string
	Width int
}

// fitColumns resolves zero widths against the header and cell contents.
func fitColumns(columns []TableColumn, rows []table.Row) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		width := c.Width
		if width <= 0 {
			width = lipgloss.Width(c.Title)
			for _, row := range rows {
				if i < len(row) {
					width = max(width, lipgloss.Width(row[i]))
				}
			}
		}
		cols[i] = table.Column{Title: c.Title, Width: width}
	}
	return cols
}

// NewTable builds a read-only bubbles table sized to show every row.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(fitColumns(columns, rows)),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// No cursor in CLI output.
	s.Selected = s.Selected.Foreground(ColorPrimary).Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders rows for CLI output, or "" when there are none.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}
