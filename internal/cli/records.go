package cli

import (
	"context"
	"io"
	"time"

	"github.com/rileyhilliard/powerdash/internal/backend"
	"github.com/rileyhilliard/powerdash/internal/records"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// defaultRecordWindow is used when --from is omitted.
const defaultRecordWindow = time.Hour

// RecordsOptions holds the inputs of the records command.
type RecordsOptions struct {
	Location string
	From     string
	To       string
	JSON     bool
}

// recordsCommand fetches recorded readings for a location and renders them
// as a table or JSON document.
func recordsCommand(ctx context.Context, w io.Writer, client *backend.Client, reg *telemetry.Registry, opts RecordsOptions, now time.Time) error {
	loc, err := reg.Lookup(opts.Location)
	if err != nil {
		return err
	}

	to, err := ParseTimeFlag("to", opts.To, now)
	if err != nil {
		return err
	}
	if to.IsZero() {
		to = now
	}
	from, err := ParseTimeFlag("from", opts.From, now)
	if err != nil {
		return err
	}
	if from.IsZero() {
		from = to.Add(-defaultRecordWindow)
	}

	recs, err := client.FetchRecords(ctx, loc.Topic, from, to)
	if err != nil {
		return err
	}
	rows := records.Aggregate(recs)

	if opts.JSON || machineMode {
		return records.RenderJSON(w, loc.Topic, rows)
	}
	return records.RenderTable(w, rows)
}
