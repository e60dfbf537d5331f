// Package records turns recorded telemetry fetched from the backend into
// aggregated rows for display or JSON export.
package records

import (
	"strconv"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// Record is one stored reading as returned by the backend.
type Record struct {
	Timestamp string `json:"timestamp"`
	telemetry.Reading
}

// Row is a Record with the per-metric aggregates applied: power and current
// are summed over phases, voltage is averaged.
type Row struct {
	Timestamp      string     `json:"timestamp"`
	TotalPower     float64    `json:"total_power"`
	Power          [3]float64 `json:"power"`
	TotalCurrent   float64    `json:"total_current"`
	Current        [3]float64 `json:"current"`
	AverageVoltage float64    `json:"average_voltage"`
	Voltage        [3]float64 `json:"voltage"`
}

// Aggregate converts records to rows, preserving order.
func Aggregate(recs []Record) []Row {
	rows := make([]Row, len(recs))
	for i, r := range recs {
		rows[i] = Row{
			Timestamp:      r.Timestamp,
			TotalPower:     r.TotalPower(),
			Power:          r.Powers(),
			TotalCurrent:   r.TotalCurrent(),
			Current:        r.Currents(),
			AverageVoltage: r.AverageVoltage(),
			Voltage:        r.Voltages(),
		}
	}
	return rows
}

// Columns are the table headers, in Cells order.
var Columns = []string{
	"Timestamp",
	"Total Power", "P1", "P2", "P3",
	"Total Current", "C1", "C2", "C3",
	"Avg Voltage", "V1", "V2", "V3",
}

// Cells renders the row as strings with two decimals.
func (r Row) Cells() []string {
	cells := make([]string, 0, len(Columns))
	cells = append(cells, r.Timestamp)
	cells = append(cells, format(r.TotalPower))
	for _, v := range r.Power {
		cells = append(cells, format(v))
	}
	cells = append(cells, format(r.TotalCurrent))
	for _, v := range r.Current {
		cells = append(cells, format(v))
	}
	cells = append(cells, format(r.AverageVoltage))
	for _, v := range r.Voltage {
		cells = append(cells, format(v))
	}
	return cells
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Summary holds min, max and mean of the totals over a set of rows.
type Summary struct {
	Count       int     `json:"count"`
	PeakPower   float64 `json:"peak_power"`
	MeanPower   float64 `json:"mean_power"`
	PeakCurrent float64 `json:"peak_current"`
	MeanVoltage float64 `json:"mean_voltage"`
}

// Summarize computes a Summary. Empty input yields the zero value.
func Summarize(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(rows)}
	var powerSum, voltageSum float64
	for i, r := range rows {
		if i == 0 || r.TotalPower > s.PeakPower {
			s.PeakPower = r.TotalPower
		}
		if i == 0 || r.TotalCurrent > s.PeakCurrent {
			s.PeakCurrent = r.TotalCurrent
		}
		powerSum += r.TotalPower
		voltageSum += r.AverageVoltage
	}
	s.MeanPower = powerSum / float64(len(rows))
	s.MeanVoltage = voltageSum / float64(len(rows))
	return s
}
