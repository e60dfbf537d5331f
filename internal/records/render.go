package records

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rileyhilliard/powerdash/internal/ui"
	"github.com/rileyhilliard/powerdash/internal/util"
)

// columnWidth returns a width that fits the header and two-decimal values.
func columnWidth(title string) int {
	switch title {
	case "Timestamp":
		return 20
	default:
		if len(title) > 9 {
			return len(title) + 1
		}
		return 9
	}
}

// TableColumns returns the ui table layout for rows.
func TableColumns() []ui.TableColumn {
	cols := make([]ui.TableColumn, len(Columns))
	for i, title := range Columns {
		cols[i] = ui.TableColumn{Title: title, Width: columnWidth(title)}
	}
	return cols
}

// RenderTable writes rows as a terminal table followed by a summary line.
func RenderTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No records in the selected range")
		return err
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	if _, err := fmt.Fprintln(w, ui.RenderSimpleTable(TableColumns(), cells)); err != nil {
		return err
	}

	s := Summarize(rows)
	_, err := fmt.Fprintf(w, "%d %s, peak power %s W, mean power %s W, peak current %s A, mean voltage %s V\n",
		s.Count, util.Pluralize(s.Count, "record", "records"), format(s.PeakPower), format(s.MeanPower), format(s.PeakCurrent), format(s.MeanVoltage))
	return err
}

// jsonOutput is the --json document.
type jsonOutput struct {
	Topic   string  `json:"topic"`
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// RenderJSON writes rows as an indented JSON document.
func RenderJSON(w io.Writer, topic string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{Topic: topic, Rows: rows, Summary: Summarize(rows)})
}
