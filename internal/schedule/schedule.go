// Package schedule models daily on/off windows for a location's device.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/powerdash/internal/errors"
)

// Clock is a time of day, stored as seconds since midnight.
type Clock int

// Wire and display layouts.
const (
	// WireLayout is the backend format, HH:MM:SS.
	WireLayout = "15:04:05"
	// DisplayLayout is the 12-hour format used in lists.
	DisplayLayout = "03:04 PM"
)

// secondsPerDay bounds a Clock.
const secondsPerDay = 24 * 60 * 60

// inputLayouts are tried in order by ParseClock.
var inputLayouts = []string{
	WireLayout,
	"15:04",
	DisplayLayout,
	"03:04:05 PM",
	"3:04:05 PM",
	"3:04:05PM",
	"3:04 PM",
	"3:04PM",
	"3PM",
}

// NewClock builds a Clock from components.
func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ClockOf returns the time-of-day part of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock reads a time of day. Backend values can carry trailing data
// (fractional seconds, offsets); when no layout matches the whole input, a
// leading HH:MM:SS is used unless the rest names AM or PM.
func ParseClock(s string) (Clock, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if c, ok := parseLayouts(s); ok {
		return c, nil
	}
	if len(s) > len(WireLayout) && s[2] == ':' && s[5] == ':' {
		rest := s[len(WireLayout):]
		if !strings.Contains(rest, "AM") && !strings.Contains(rest, "PM") {
			if c, ok := parseLayouts(s[:len(WireLayout)]); ok {
				return c, nil
			}
		}
	}
	return 0, errors.New(errors.ErrSchedule,
		fmt.Sprintf("Can't parse time %q", s),
		"Use HH:MM, HH:MM:SS or a 12-hour time like 03:30 PM")
}

func parseLayouts(s string) (Clock, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), true
		}
	}
	return 0, false
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 3600 / 60 }

// Second returns the second component.
func (c Clock) Second() int { return int(c) % 60 }

// Valid reports whether c is within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < secondsPerDay
}

func (c Clock) time() time.Time {
	return time.Date(2000, 1, 1, c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

// Wire formats c as HH:MM:SS.
func (c Clock) Wire() string {
	return c.time().Format(WireLayout)
}

// String formats c as a 12-hour time, e.g. "09:30 AM".
func (c Clock) String() string {
	return c.time().Format(DisplayLayout)
}

// Schedule is one daily window during which the device should run.
type Schedule struct {
	ID     string `json:"id"`
	Start  Clock  `json:"start"`
	End    Clock  `json:"end"`
	Active bool   `json:"active"`
}

// Validate checks that the window is well formed and ends after it starts.
func (s Schedule) Validate() error {
	if !s.Start.Valid() || !s.End.Valid() {
		return errors.New(errors.ErrSchedule,
			"Schedule times must fall within a single day",
			"Use times between 00:00:00 and 23:59:59")
	}
	if s.End <= s.Start {
		return errors.New(errors.ErrSchedule,
			fmt.Sprintf("End time %s must be after start time %s", s.End, s.Start),
			"Pick a later end time")
	}
	return nil
}

// Contains reports whether c falls inside [Start, End).
func (s Schedule) Contains(c Clock) bool {
	return c >= s.Start && c < s.End
}

// Duration returns the window length.
func (s Schedule) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Second
}

// Label renders the window as "09:00 AM - 05:00 PM".
func (s Schedule) Label() string {
	return s.Start.String() + " - " + s.End.String()
}

// SameWindow reports whether two schedules cover the same times.
func (s Schedule) SameWindow(o Schedule) bool {
	return s.Start == o.Start && s.End == o.End
}
