package series

import (
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// Measurement is one of the three electrical quantities charted per location.
type Measurement int

const (
	Power Measurement = iota
	Voltage
	Current
)

// Measurements lists every measurement in chart order.
var Measurements = []Measurement{Power, Voltage, Current}

// String returns the lower-case measurement name used in channel names.
func (m Measurement) String() string {
	switch m {
	case Power:
		return "power"
	case Voltage:
		return "voltage"
	case Current:
		return "current"
	default:
		return "unknown"
	}
}

// Title returns the display name of the measurement.
func (m Measurement) Title() string {
	switch m {
	case Power:
		return "Power"
	case Voltage:
		return "Voltage"
	case Current:
		return "Current"
	default:
		return "Unknown"
	}
}

// Unit returns the SI unit symbol of the measurement.
func (m Measurement) Unit() string {
	switch m {
	case Power:
		return "W"
	case Voltage:
		return "V"
	case Current:
		return "A"
	default:
		return ""
	}
}

// Next cycles Power -> Voltage -> Current -> Power.
func (m Measurement) Next() Measurement {
	return Measurement((int(m) + 1) % len(Measurements))
}

// Phase selects the aggregate or one of the three phases.
type Phase int

const (
	Total Phase = iota
	Phase1
	Phase2
	Phase3
)

// Phases lists the three individual phases.
var Phases = []Phase{Phase1, Phase2, Phase3}

// ChannelName returns the canonical channel name, e.g. "voltage_phase1" or "power_total".
func ChannelName(m Measurement, p Phase) string {
	if p == Total {
		return m.String() + "_total"
	}
	return fmt.Sprintf("%s_phase%d", m, int(p))
}

type channelKey struct {
	m Measurement
	p Phase
}

// Set is the LocationSeriesSet: twelve channels (total + three phases for
// power, voltage and current) owned by one location. A single RWMutex guards
// all channels so readers never observe a partially applied push.
type Set struct {
	mu       sync.RWMutex
	capacity int
	channels map[channelKey]*Channel
	pushes   int
}

// NewSet creates the twelve channels with the given capacity.
func NewSet(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Set{
		capacity: capacity,
		channels: make(map[channelKey]*Channel, len(Measurements)*4),
	}
	for _, m := range Measurements {
		for _, p := range []Phase{Total, Phase1, Phase2, Phase3} {
			s.channels[channelKey{m, p}] = NewChannel(ChannelName(m, p), capacity)
		}
	}
	return s
}

// Push records one decoded reading at ts across all twelve channels.
// Power and current totals are phase sums; the voltage total is the phase average.
func (s *Set) Push(ts time.Time, r telemetry.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.push(Power, ts, r.TotalPower(), r.P1, r.P2, r.P3)
	s.push(Voltage, ts, r.AverageVoltage(), r.V1, r.V2, r.V3)
	s.push(Current, ts, r.TotalCurrent(), r.C1, r.C2, r.C3)
	s.pushes++
}

// push must be called with s.mu held.
func (s *Set) push(m Measurement, ts time.Time, total, p1, p2, p3 float64) {
	s.channels[channelKey{m, Total}].Push(ts, total)
	s.channels[channelKey{m, Phase1}].Push(ts, p1)
	s.channels[channelKey{m, Phase2}].Push(ts, p2)
	s.channels[channelKey{m, Phase3}].Push(ts, p3)
}

// Capacity returns the per-channel capacity.
func (s *Set) Capacity() int {
	return s.capacity
}

// Len returns the number of samples retained per channel.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels[channelKey{Power, Total}].Len()
}

// Pushes returns how many readings have been pushed since creation.
func (s *Set) Pushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pushes
}

// Values returns a copy of a channel's values, oldest first.
func (s *Set) Values(m Measurement, p Phase) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[channelKey{m, p}]
	if !ok {
		return nil
	}
	return ch.Values()
}

// Samples returns a copy of a channel's samples, oldest first.
func (s *Set) Samples(m Measurement, p Phase) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[channelKey{m, p}]
	if !ok {
		return nil
	}
	return ch.Samples()
}

// Newest returns the latest sample of a channel.
func (s *Set) Newest(m Measurement, p Phase) (Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[channelKey{m, p}]
	if !ok {
		return Sample{}, false
	}
	return ch.Newest()
}

// Snapshot returns a detached copy of a channel for range computations
// that span several sets.
func (s *Set) Snapshot(m Measurement, p Phase) *Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.channels[channelKey{m, p}]
	if !ok {
		return nil
	}
	cp := &Channel{
		name:  src.name,
		data:  make([]Sample, len(src.data)),
		head:  src.head,
		count: src.count,
		size:  src.size,
	}
	copy(cp.data, src.data)
	return cp
}

// Reset clears every channel.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels {
		ch.Reset()
	}
	s.pushes = 0
}
