package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"golang.org/x/term"
)

// recordTimeLayouts are accepted by --from and --to, in local time.
var recordTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimeFlag reads an absolute timestamp or a duration counted back from
// now ("90m" and "-90m" both mean 90 minutes ago). An empty flag returns zero.
func ParseTimeFlag(name, value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(value, "-")); err == nil {
		return now.Add(-d), nil
	}

	for _, layout := range recordTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' doesn't look like a time for --%s", value, name),
		"Use 2024-03-01T08:00:00, 2024-03-01 08:00, 2024-03-01, or a duration like 2h.")
}

// ParseClockFlag reads a time of day for the schedule flags.
func ParseClockFlag(name, value string) (schedule.Clock, error) {
	c, err := schedule.ParseClock(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrSchedule,
			fmt.Sprintf("--%s '%s' isn't a time of day", name, value),
			"Use HH:MM, HH:MM:SS or a 12-hour time like 03:30 PM")
	}
	return c, nil
}

// ParseDeviceState maps on/off words to the motor state.
func ParseDeviceState(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "start", "1", "true":
		return true, nil
	case "off", "stop", "0", "false":
		return false, nil
	}
	return false, errors.New(errors.ErrDevice,
		fmt.Sprintf("Unknown device state '%s'", value),
		"Use 'on' or 'off'")
}

// canPrompt reports whether huh forms can run: both ends of the terminal are
// interactive and JSON output wasn't requested.
func canPrompt() bool {
	if machineMode {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// animateOutput reports whether spinners should animate on stdout.
func animateOutput() bool {
	return !machineMode && term.IsTerminal(int(os.Stdout.Fd()))
}
