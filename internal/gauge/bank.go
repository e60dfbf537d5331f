package gauge

import (
	"fmt"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// Quantity identifies what a gauge in a Bank displays.
type Quantity int

const (
	Voltage Quantity = iota
	Current
	Power
)

// Quantities lists the gauge rows in display order.
var Quantities = []Quantity{Voltage, Current, Power}

func (q Quantity) String() string {
	switch q {
	case Voltage:
		return "Voltage"
	case Current:
		return "Current"
	case Power:
		return "Power"
	default:
		return "Unknown"
	}
}

// Unit returns the display unit.
func (q Quantity) Unit() string {
	switch q {
	case Voltage:
		return "V"
	case Current:
		return "A"
	case Power:
		return "W"
	default:
		return ""
	}
}

// Default full-scale values for the detail gauges.
const (
	DefaultVoltageMax = 500.0
	DefaultCurrentMax = 100.0
	DefaultPowerMax   = 5000.0
)

// Ranges holds the upper bound of each quantity. Lower bounds are zero.
type Ranges struct {
	Voltage float64
	Current float64
	Power   float64
}

// DefaultRanges returns 0-500 V, 0-100 A and 0-5000 W.
func DefaultRanges() Ranges {
	return Ranges{
		Voltage: DefaultVoltageMax,
		Current: DefaultCurrentMax,
		Power:   DefaultPowerMax,
	}
}

func (r Ranges) max(q Quantity) float64 {
	switch q {
	case Voltage:
		return r.Voltage
	case Current:
		return r.Current
	default:
		return r.Power
	}
}

// Phases per quantity.
const Phases = 3

// Bank is the set of nine gauges shown for one location: voltage, current and
// power for phases 1 to 3.
type Bank struct {
	gauges [3][Phases]*Animator
}

// NewBank creates nine gauges at rest. ticks <= 0 uses DefaultTicks.
func NewBank(ranges Ranges, ticks int) *Bank {
	b := &Bank{}
	for _, q := range Quantities {
		for p := 0; p < Phases; p++ {
			b.gauges[q][p] = NewAnimatorWithTicks(0, ranges.max(q), ticks)
		}
	}
	return b
}

// Gauge returns the animator for quantity q and phase (1-based).
func (b *Bank) Gauge(q Quantity, phase int) (*Animator, error) {
	if q < Voltage || q > Power {
		return nil, fmt.Errorf("unknown quantity %d", q)
	}
	if phase < 1 || phase > Phases {
		return nil, fmt.Errorf("phase %d out of range 1-%d", phase, Phases)
	}
	return b.gauges[q][phase-1], nil
}

// Apply sets every gauge's target from a reading.
func (b *Bank) Apply(r telemetry.Reading) {
	values := [3][Phases]float64{
		Voltage: r.Voltages(),
		Current: r.Currents(),
		Power:   r.Powers(),
	}
	for _, q := range Quantities {
		for p := 0; p < Phases; p++ {
			b.gauges[q][p].SetTarget(values[q][p])
		}
	}
}

// Tick advances every gauge one step. Returns true if any gauge moved.
func (b *Bank) Tick() bool {
	moved := false
	for _, q := range Quantities {
		for p := 0; p < Phases; p++ {
			if b.gauges[q][p].Tick() {
				moved = true
			}
		}
	}
	return moved
}

// Settled reports whether every gauge rests on its target.
func (b *Bank) Settled() bool {
	for _, q := range Quantities {
		for p := 0; p < Phases; p++ {
			if !b.gauges[q][p].Settled() {
				return false
			}
		}
	}
	return true
}

// Row returns the three phase gauges of a quantity.
func (b *Bank) Row(q Quantity) [Phases]*Animator {
	return b.gauges[q]
}
