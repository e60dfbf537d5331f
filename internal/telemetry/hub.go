package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/logger"
)

// DefaultEventBuffer is the capacity of the hub's fan-in channel.
const DefaultEventBuffer = 64

// Hub owns one source per topic and fans their events into a single channel.
// It also tracks per-topic connection state so commands can be routed.
type Hub struct {
	mu      sync.Mutex
	entries map[string]*hubEntry
	order   []string

	metrics *Metrics
	log     logger.Logger

	events  chan Event
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// hubEntry holds a source and its last known state.
type hubEntry struct {
	source    Source
	connected bool
	lastSeen  time.Time
	readings  int
	rejected  int
}

// TopicStatus is a point-in-time view of one topic.
type TopicStatus struct {
	Topic     string
	Connected bool
	LastSeen  time.Time
	Readings  int
	Rejected  int
}

// NewHub creates an empty hub. metrics and log may be nil.
func NewHub(metrics *Metrics, log logger.Logger) *Hub {
	if log == nil {
		log = logger.Noop()
	}
	return &Hub{
		entries: make(map[string]*hubEntry),
		metrics: metrics,
		log:     log,
		events:  make(chan Event, DefaultEventBuffer),
	}
}

// Add registers a source. Sources added after Start are not run.
func (h *Hub) Add(src Source) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.entries[src.Topic()]; !exists {
		h.order = append(h.order, src.Topic())
	}
	h.entries[src.Topic()] = &hubEntry{source: src}
}

// Size returns the number of registered sources.
func (h *Hub) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Events returns the fan-in channel. It is closed by Close.
func (h *Hub) Events() <-chan Event {
	return h.events
}

// Start runs every source on its own goroutine.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	if h.started || h.closed {
		h.mu.Unlock()
		return
	}
	h.started = true
	ctx, h.cancel = context.WithCancel(ctx)
	sources := make([]Source, 0, len(h.order))
	for _, topic := range h.order {
		sources = append(sources, h.entries[topic].source)
	}
	h.mu.Unlock()

	raw := make(chan Event, DefaultEventBuffer)
	var producers sync.WaitGroup
	for _, src := range sources {
		producers.Add(1)
		go func(src Source) {
			defer producers.Done()
			if err := src.Run(ctx, raw); err != nil {
				h.log.Warn("%s: source stopped: %v", src.Topic(), err)
			}
		}(src)
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		producers.Wait()
		close(raw)
	}()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for ev := range raw {
			h.observe(ev)
			select {
			case h.events <- ev:
			case <-ctx.Done():
			}
		}
	}()
}

// observe records an event against its topic's state.
func (h *Hub) observe(ev Event) {
	h.metrics.Observe(ev)

	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.entries[ev.Topic]
	if !ok {
		return
	}
	switch ev.Kind {
	case EventConnected:
		entry.connected = true
	case EventDisconnected:
		entry.connected = false
	case EventReading:
		entry.readings++
		entry.lastSeen = ev.Timestamp
	case EventRejected:
		entry.rejected++
	}
}

// Status returns the state of every topic in registration order.
func (h *Hub) Status() []TopicStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]TopicStatus, 0, len(h.order))
	for _, topic := range h.order {
		e := h.entries[topic]
		out = append(out, TopicStatus{
			Topic:     topic,
			Connected: e.connected,
			LastSeen:  e.lastSeen,
			Readings:  e.readings,
			Rejected:  e.rejected,
		})
	}
	return out
}

// Connected reports whether topic's source is connected.
func (h *Hub) Connected(topic string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[topic]
	return ok && e.connected
}

// Send routes a device command to topic's source.
func (h *Hub) Send(ctx context.Context, topic, command string) error {
	h.mu.Lock()
	e, ok := h.entries[topic]
	h.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrDevice,
			"No telemetry source for topic "+topic,
			"Check the locations in your config")
	}
	return e.source.Send(ctx, command)
}

// Close stops every source and closes the events channel.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.wg.Wait()
	close(h.events)
}
