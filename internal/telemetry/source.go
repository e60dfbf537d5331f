package telemetry

import (
	"context"
	"time"
)

// Device commands understood by the field controllers.
const (
	CommandOn  = "MOTOR ON"
	CommandOff = "MOTOR OFF"
)

// DeviceCommand returns the wire command for the requested motor state.
func DeviceCommand(on bool) string {
	if on {
		return CommandOn
	}
	return CommandOff
}

// Source produces events for a single topic.
type Source interface {
	// Topic returns the topic this source is bound to.
	Topic() string
	// Run delivers events to out until ctx is cancelled or the source gives up.
	Run(ctx context.Context, out chan<- Event) error
	// Send writes a text command back to the device behind the topic.
	Send(ctx context.Context, command string) error
}

// emit sends ev unless ctx is done first. Returns false when cancelled.
func emit(ctx context.Context, out chan<- Event, ev Event) bool {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleep waits for d or ctx cancellation. Returns false when cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
