package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts telemetry traffic per topic.
type Metrics struct {
	messages  *prometheus.CounterVec
	connected *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powerdash",
			Subsystem: "telemetry",
			Name:      "messages_total",
			Help:      "Telemetry messages received, by topic and decode result.",
		}, []string{"topic", "result"}),
		connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "powerdash",
			Subsystem: "telemetry",
			Name:      "connected",
			Help:      "1 while the topic's source is connected.",
		}, []string{"topic"}),
	}
	if reg != nil {
		reg.MustRegister(m.messages, m.connected)
	}
	return m
}

// Observe updates the collectors for one event. Safe on a nil receiver.
func (m *Metrics) Observe(ev Event) {
	if m == nil {
		return
	}
	switch ev.Kind {
	case EventConnected:
		m.connected.WithLabelValues(ev.Topic).Set(1)
	case EventDisconnected:
		m.connected.WithLabelValues(ev.Topic).Set(0)
	case EventReading:
		m.messages.WithLabelValues(ev.Topic, "ok").Inc()
	case EventRejected:
		m.messages.WithLabelValues(ev.Topic, "rejected").Inc()
	}
}
