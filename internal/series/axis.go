package series

import "time"

// Axis defaults used by the live charts.
const (
	// DefaultMargin is the headroom added above the observed maximum.
	DefaultMargin = 0.1
	// DefaultFloor keeps the value axis stable when readings sit near zero.
	DefaultFloor = 100.0
	// DefaultEndPadding is added after the newest sample.
	DefaultEndPadding = 5 * time.Second
	// DefaultMinWindow is the shortest time span a chart will show.
	DefaultMinWindow = 30 * time.Second
)

// ValueRange is a value axis span.
type ValueRange struct {
	Min float64
	Max float64
}

// TimeRange is a time axis span.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Span returns End - Start.
func (r TimeRange) Span() time.Duration {
	return r.End.Sub(r.Start)
}

// AxisRange is the derived pair of axes for one chart.
type AxisRange struct {
	TimeMin  time.Time
	TimeMax  time.Time
	ValueMin float64
	ValueMax float64
}

// AxisOptions controls how an AxisRange is derived from data.
type AxisOptions struct {
	Margin     float64
	Floor      float64
	EndPadding time.Duration
	MinWindow  time.Duration
}

// DefaultAxisOptions returns the reference chart settings.
func DefaultAxisOptions() AxisOptions {
	return AxisOptions{
		Margin:     DefaultMargin,
		Floor:      DefaultFloor,
		EndPadding: DefaultEndPadding,
		MinWindow:  DefaultMinWindow,
	}
}

// JointValueRange computes (0, max(observedMax*(1+margin), floor)) across the
// union of channels. Returns false when every channel is empty.
func JointValueRange(margin, floor float64, channels ...*Channel) (ValueRange, bool) {
	found := false
	var observed float64
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		m, ok := ch.Max()
		if !ok {
			continue
		}
		if !found || m > observed {
			observed = m
		}
		found = true
	}
	if !found {
		return ValueRange{}, false
	}

	top := observed * (1 + margin)
	if top < floor {
		top = floor
	}
	return ValueRange{Min: 0, Max: top}, true
}

// JointTimeRange computes (oldest, newest+endPadding) across the union of
// channels. If the span is shorter than minWindow the start is pulled back so
// the span equals minWindow exactly. Returns false when every channel is empty.
func JointTimeRange(endPadding, minWindow time.Duration, channels ...*Channel) (TimeRange, bool) {
	found := false
	var earliest, latest time.Time
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		first, ok := ch.Oldest()
		if !ok {
			continue
		}
		last, _ := ch.Newest()
		if !found || first.Timestamp.Before(earliest) {
			earliest = first.Timestamp
		}
		if !found || last.Timestamp.After(latest) {
			latest = last.Timestamp
		}
		found = true
	}
	if !found {
		return TimeRange{}, false
	}

	end := latest.Add(endPadding)
	start := earliest
	if end.Sub(start) < minWindow {
		start = end.Add(-minWindow)
	}
	return TimeRange{Start: start, End: end}, true
}

// ComputeAxisRange derives both axes for a chart fed by channels.
func ComputeAxisRange(opts AxisOptions, channels ...*Channel) (AxisRange, bool) {
	tr, ok := JointTimeRange(opts.EndPadding, opts.MinWindow, channels...)
	if !ok {
		return AxisRange{}, false
	}
	vr, _ := JointValueRange(opts.Margin, opts.Floor, channels...)
	return AxisRange{
		TimeMin:  tr.Start,
		TimeMax:  tr.End,
		ValueMin: vr.Min,
		ValueMax: vr.Max,
	}, true
}

// Axis caches the last good AxisRange for a chart. Updating from empty data
// leaves the previous range in place.
type Axis struct {
	opts  AxisOptions
	rng   AxisRange
	valid bool
}

// NewAxis creates an axis cache with the given options.
func NewAxis(opts AxisOptions) *Axis {
	return &Axis{opts: opts}
}

// Update recomputes the range from channels. Returns false, keeping the
// previous range, when there is no data.
func (a *Axis) Update(channels ...*Channel) bool {
	rng, ok := ComputeAxisRange(a.opts, channels...)
	if !ok {
		return false
	}
	a.rng = rng
	a.valid = true
	return true
}

// Range returns the cached range and whether one has ever been computed.
func (a *Axis) Range() (AxisRange, bool) {
	return a.rng, a.valid
}

// Options returns the axis options.
func (a *Axis) Options() AxisOptions {
	return a.opts
}
