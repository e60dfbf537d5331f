package telemetry

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rileyhilliard/powerdash/internal/logger"
)

// Simulator ranges. Normal readings sit in the base bands; with SpikeChance
// probability a reading jumps into the spike bands.
const (
	SpikeChance = 0.1

	basePowerMin, basePowerMax     = 0.0, 20.0
	baseVoltageMin, baseVoltageMax = 70.0, 90.0
	baseCurrentMin, baseCurrentMax = 10.0, 50.0

	spikePowerMin, spikePowerMax     = 50.0, 100.0
	spikeVoltageMin, spikeVoltageMax = 90.0, 110.0
	spikeCurrentMin, spikeCurrentMax = 50.0, 80.0
)

// DefaultSimulateInterval is the delay between simulated readings.
const DefaultSimulateInterval = time.Second

// Simulate draws one random reading. Every phase is drawn independently.
func Simulate(rng *rand.Rand) Reading {
	spike := rng.Float64() < SpikeChance
	pMin, pMax := basePowerMin, basePowerMax
	vMin, vMax := baseVoltageMin, baseVoltageMax
	cMin, cMax := baseCurrentMin, baseCurrentMax
	if spike {
		pMin, pMax = spikePowerMin, spikePowerMax
		vMin, vMax = spikeVoltageMin, spikeVoltageMax
		cMin, cMax = spikeCurrentMin, spikeCurrentMax
	}

	between := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
	return Reading{
		V1: between(vMin, vMax), V2: between(vMin, vMax), V3: between(vMin, vMax),
		C1: between(cMin, cMax), C2: between(cMin, cMax), C3: between(cMin, cMax),
		P1: between(pMin, pMax), P2: between(pMin, pMax), P3: between(pMin, pMax),
	}
}

// SimulatedSource generates readings locally instead of subscribing to a socket.
type SimulatedSource struct {
	topic    string
	interval time.Duration
	log      logger.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	commands []string
}

// NewSimulatedSource creates a simulator for topic. A nil rng is seeded from
// the clock.
func NewSimulatedSource(topic string, interval time.Duration, rng *rand.Rand) *SimulatedSource {
	if interval <= 0 {
		interval = DefaultSimulateInterval
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedSource{
		topic:    topic,
		interval: interval,
		rng:      rng,
		log:      logger.Noop(),
	}
}

// SetLogger replaces the logger.
func (s *SimulatedSource) SetLogger(l logger.Logger) {
	if l != nil {
		s.log = l
	}
}

// Topic implements Source.
func (s *SimulatedSource) Topic() string {
	return s.topic
}

// Run implements Source.
func (s *SimulatedSource) Run(ctx context.Context, out chan<- Event) error {
	if !emit(ctx, out, Event{Topic: s.topic, Kind: EventConnected}) {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.mu.Lock()
			r := Simulate(s.rng)
			s.mu.Unlock()
			if !emit(ctx, out, Event{Topic: s.topic, Kind: EventReading, Reading: r}) {
				return nil
			}
		}
	}
}

// Send implements Source. Commands are recorded and logged.
func (s *SimulatedSource) Send(_ context.Context, command string) error {
	s.mu.Lock()
	s.commands = append(s.commands, command)
	s.mu.Unlock()
	s.log.Info("%s: simulated %q", s.topic, command)
	return nil
}

// Commands returns the commands sent so far.
func (s *SimulatedSource) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}
