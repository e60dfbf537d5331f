package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/stretchr/testify/require"
)

const (
	topicA = "modbus/data"
	topicB = "modbus/registers"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type sentCommand struct {
	topic   string
	command string
}

// fakeSource is an EventSource driven directly by tests.
type fakeSource struct {
	ch  chan telemetry.Event
	mu  sync.Mutex
	err error
	log []sentCommand
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan telemetry.Event, 8)}
}

func (f *fakeSource) Events() <-chan telemetry.Event { return f.ch }

func (f *fakeSource) Send(_ context.Context, topic, command string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.log = append(f.log, sentCommand{topic: topic, command: command})
	return nil
}

func (f *fakeSource) sent() []sentCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCommand(nil), f.log...)
}

type modelOption func(*Options)

func withSchedules(topic string, windows ...schedule.Schedule) modelOption {
	return func(o *Options) {
		if o.Schedules == nil {
			o.Schedules = map[string][]schedule.Schedule{}
		}
		o.Schedules[topic] = windows
	}
}

func newTestModel(t *testing.T, opts ...modelOption) (Model, *fakeSource) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	reg, err := telemetry.NewRegistry([]telemetry.Location{
		{Name: "Building 1", Topic: topicA, Color: "green"},
		{Name: "Building 2", Topic: topicB, Color: "red"},
	})
	require.NoError(t, err)

	o := DefaultOptions()
	o.Now = func() time.Time { return t0.Add(3 * time.Second) }
	for _, fn := range opts {
		fn(&o)
	}

	src := newFakeSource()
	return NewModel(reg, src, o), src
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func reading(scale float64) telemetry.Reading {
	return telemetry.Reading{
		V1: 230 * scale, V2: 231 * scale, V3: 229 * scale,
		C1: 5 * scale, C2: 6 * scale, C3: 7 * scale,
		P1: 1000 * scale, P2: 1100 * scale, P3: 1200 * scale,
	}
}

func readingEvent(topic string, at time.Time, r telemetry.Reading) eventMsg {
	return eventMsg(telemetry.Event{Topic: topic, Kind: telemetry.EventReading, Reading: r, Timestamp: at})
}
