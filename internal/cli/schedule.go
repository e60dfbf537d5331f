package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/powerdash/internal/backend"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

// ScheduleListing is one row of 'schedule list'.
type ScheduleListing struct {
	Location string `json:"location"`
	Topic    string `json:"topic"`
	Position int    `json:"position"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

var scheduleColumns = []ui.TableColumn{
	{Title: "#", Width: 3},
	{Title: "Location"},
	{Title: "Window", Width: 21},
	{Title: "Length", Width: 8},
}

// ScheduleAddOptions holds the inputs of 'schedule add'.
type ScheduleAddOptions struct {
	Location string
	Start    string
	End      string
	// Prompt allows a huh form to fill in missing values.
	Prompt  bool
	Animate bool
}

// fetchBook loads a location's schedules from the backend into a Book so
// positions and overlap checks match what the dashboard shows.
func fetchBook(ctx context.Context, client *backend.Client, loc telemetry.Location) (*schedule.Book, error) {
	windows, err := client.ListSchedules(ctx, loc.Topic)
	if err != nil {
		return nil, err
	}
	book := schedule.NewBook(loc.Topic)
	if err := book.Load(windows); err != nil {
		return nil, err
	}
	return book, nil
}

// scheduleListCommand prints the schedules of one location, or of every
// location when ref is empty.
func scheduleListCommand(ctx context.Context, w io.Writer, client *backend.Client, reg *telemetry.Registry, ref string) error {
	locs := reg.Locations()
	if ref != "" {
		loc, err := reg.Lookup(ref)
		if err != nil {
			return err
		}
		locs = []telemetry.Location{loc}
	}

	listing := make([]ScheduleListing, 0)
	var rows [][]string
	for _, loc := range locs {
		book, err := fetchBook(ctx, client, loc)
		if err != nil {
			return err
		}
		for i, s := range book.All() {
			listing = append(listing, ScheduleListing{
				Location: loc.Name,
				Topic:    loc.Topic,
				Position: i + 1,
				Start:    s.Start.Wire(),
				End:      s.End.Wire(),
			})
			rows = append(rows, []string{strconv.Itoa(i + 1), loc.Name, s.Label(), s.Duration().String()})
		}
	}

	if machineMode {
		return WriteJSONSuccess(w, listing)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No schedules. Add one with 'powerdash schedule add'.")
		return err
	}
	_, err := fmt.Fprintln(w, ui.RenderSimpleTable(scheduleColumns, rows))
	return err
}

// scheduleAddCommand creates a daily window on the backend.
func scheduleAddCommand(ctx context.Context, w io.Writer, client *backend.Client, reg *telemetry.Registry, opts ScheduleAddOptions) error {
	if opts.Location == "" || opts.Start == "" || opts.End == "" {
		if !opts.Prompt {
			return errors.New(errors.ErrSchedule,
				"A location, --start and --end are required",
				"Example: powerdash schedule add \"Building 1\" --start 08:00 --end 17:30")
		}
		if err := promptScheduleAdd(reg, &opts); err != nil {
			return err
		}
	}

	loc, err := reg.Lookup(opts.Location)
	if err != nil {
		return err
	}
	start, err := ParseClockFlag("start", opts.Start)
	if err != nil {
		return err
	}
	end, err := ParseClockFlag("end", opts.End)
	if err != nil {
		return err
	}

	book, err := fetchBook(ctx, client, loc)
	if err != nil {
		return err
	}
	s, err := book.Add(start, end)
	if err != nil {
		return err
	}

	if machineMode {
		if err := client.CreateSchedule(ctx, loc.Topic, s); err != nil {
			return err
		}
		return WriteJSONSuccess(w, listingFor(loc, book, s))
	}

	spin := ui.NewSpinner(w, fmt.Sprintf("Scheduling %s for %s", s.Label(), loc.Name), opts.Animate)
	return spin.Run(func() error {
		return client.CreateSchedule(ctx, loc.Topic, s)
	})
}

// promptScheduleAdd fills the missing add options with a huh form.
func promptScheduleAdd(reg *telemetry.Registry, opts *ScheduleAddOptions) error {
	locOptions := make([]huh.Option[string], 0, reg.Len())
	for _, loc := range reg.Locations() {
		locOptions = append(locOptions, huh.NewOption(loc.Name, loc.Name))
	}
	if opts.Location == "" && reg.Len() > 0 {
		opts.Location = reg.Locations()[0].Name
	}

	validClock := func(s string) error {
		_, err := schedule.ParseClock(s)
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location").
				Options(locOptions...).
				Value(&opts.Location),
			huh.NewInput().
				Title("Start time").
				Placeholder("08:00").
				Validate(validClock).
				Value(&opts.Start),
			huh.NewInput().
				Title("End time").
				Placeholder("17:30").
				Validate(validClock).
				Value(&opts.End),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrSchedule,
			"Failed to get schedule details",
			"Pass the location, --start and --end as flags instead")
	}
	return nil
}

// scheduleDeleteCommand removes the window at a list position (or with an ID)
// from a location.
func scheduleDeleteCommand(ctx context.Context, w io.Writer, client *backend.Client, reg *telemetry.Registry, location, ref string, animate bool) error {
	loc, err := reg.Lookup(location)
	if err != nil {
		return err
	}

	book, err := fetchBook(ctx, client, loc)
	if err != nil {
		return err
	}
	s, err := book.Find(ref)
	if err != nil {
		return err
	}

	if machineMode {
		if err := client.DeleteSchedule(ctx, loc.Topic, s); err != nil {
			return err
		}
		return WriteJSONSuccess(w, listingFor(loc, book, s))
	}

	spin := ui.NewSpinner(w, fmt.Sprintf("Removing %s from %s", s.Label(), loc.Name), animate)
	return spin.Run(func() error {
		return client.DeleteSchedule(ctx, loc.Topic, s)
	})
}

// listingFor describes s at its position in book.
func listingFor(loc telemetry.Location, book *schedule.Book, s schedule.Schedule) ScheduleListing {
	pos := 0
	for i, other := range book.All() {
		if other.ID == s.ID {
			pos = i + 1
			break
		}
	}
	return ScheduleListing{
		Location: loc.Name,
		Topic:    loc.Topic,
		Position: pos,
		Start:    s.Start.Wire(),
		End:      s.End.Wire(),
	}
}
