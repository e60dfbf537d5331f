package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

// deviceTimeout bounds the dial and write of a one-off device command.
const deviceTimeout = 10 * time.Second

// deviceCommand sends MOTOR ON or MOTOR OFF on a location's socket.
func deviceCommand(ctx context.Context, w io.Writer, wsURL string, reg *telemetry.Registry, location, state string, animate bool) error {
	loc, err := reg.Lookup(location)
	if err != nil {
		return err
	}
	on, err := ParseDeviceState(state)
	if err != nil {
		return err
	}
	command := telemetry.DeviceCommand(on)

	ctx, cancel := context.WithTimeout(ctx, deviceTimeout)
	defer cancel()

	if machineMode {
		if err := telemetry.SendOnce(ctx, wsURL, loc.Topic, command); err != nil {
			return err
		}
		return WriteJSONSuccess(w, map[string]string{
			"location": loc.Name,
			"topic":    loc.Topic,
			"command":  command,
		})
	}

	spin := ui.NewSpinner(w, fmt.Sprintf("Sending %s to %s", command, loc.Name), animate)
	return spin.Run(func() error {
		return telemetry.SendOnce(ctx, wsURL, loc.Topic, command)
	})
}
