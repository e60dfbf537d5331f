package monitor

import (
	"context"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// LocationStatus represents the connection state of a location's telemetry.
type LocationStatus int

const (
	StatusConnecting LocationStatus = iota
	StatusOnline
	StatusOffline
)

// String returns a human-readable status string.
func (s LocationStatus) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewDetail
)

// EventSource feeds the dashboard and accepts device commands.
// *telemetry.Hub implements it.
type EventSource interface {
	Events() <-chan telemetry.Event
	Send(ctx context.Context, topic, command string) error
}
