package telemetry

import "time"

// EventKind describes what happened on a source.
type EventKind int

const (
	EventConnected EventKind = iota
	EventReading
	EventRejected
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventReading:
		return "reading"
	case EventRejected:
		return "rejected"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is the only thing sources hand to the rest of the program.
type Event struct {
	Topic     string
	Kind      EventKind
	Reading   Reading
	Timestamp time.Time
	// Err is set for EventRejected and, when the drop was abnormal, EventDisconnected.
	Err error
}
