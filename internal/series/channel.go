package series

import "time"

// DefaultCapacity is the number of samples retained per channel.
const DefaultCapacity = 100

// Sample is a single timestamped reading.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// Channel is a named, fixed-capacity time series backed by a ring buffer.
// When full, each Push overwrites the oldest sample.
//
// Channel is not safe for concurrent use; Set guards its channels.
type Channel struct {
	name  string
	data  []Sample
	head  int // next write position
	count int
	size  int
}

// NewChannel creates a channel holding at most capacity samples.
// A non-positive capacity falls back to DefaultCapacity.
func NewChannel(name string, capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{
		name: name,
		data: make([]Sample, capacity),
		size: capacity,
	}
}

// Name returns the channel name, e.g. "voltage_phase1".
func (c *Channel) Name() string {
	return c.name
}

// Cap returns the channel capacity.
func (c *Channel) Cap() int {
	return c.size
}

// Len returns the number of retained samples.
func (c *Channel) Len() int {
	return c.count
}

// Push appends a sample, evicting the oldest one when the channel is full.
// Callers supply monotonic timestamps; the channel never re-sorts.
func (c *Channel) Push(ts time.Time, value float64) {
	c.data[c.head] = Sample{Timestamp: ts, Value: value}
	c.head = (c.head + 1) % c.size
	if c.count < c.size {
		c.count++
	}
}

// Oldest returns the first retained sample, or false when empty.
func (c *Channel) Oldest() (Sample, bool) {
	if c.count == 0 {
		return Sample{}, false
	}
	return c.data[c.index(0)], true
}

// Newest returns the most recent sample, or false when empty.
func (c *Channel) Newest() (Sample, bool) {
	if c.count == 0 {
		return Sample{}, false
	}
	return c.data[c.index(c.count-1)], true
}

// Samples returns all retained samples, oldest first.
func (c *Channel) Samples() []Sample {
	return c.Last(c.count)
}

// Last returns the last n samples in chronological order (oldest first).
// Returns fewer samples if not enough history is available.
func (c *Channel) Last(n int) []Sample {
	if n <= 0 || c.count == 0 {
		return nil
	}
	if n > c.count {
		n = c.count
	}

	out := make([]Sample, n)
	start := c.count - n
	for i := 0; i < n; i++ {
		out[i] = c.data[c.index(start+i)]
	}
	return out
}

// Values returns the retained sample values, oldest first.
func (c *Channel) Values() []float64 {
	if c.count == 0 {
		return nil
	}
	out := make([]float64, c.count)
	for i := 0; i < c.count; i++ {
		out[i] = c.data[c.index(i)].Value
	}
	return out
}

// Max returns the largest retained value, or false when empty.
func (c *Channel) Max() (float64, bool) {
	if c.count == 0 {
		return 0, false
	}
	maxVal := c.data[c.index(0)].Value
	for i := 1; i < c.count; i++ {
		if v := c.data[c.index(i)].Value; v > maxVal {
			maxVal = v
		}
	}
	return maxVal, true
}

// ValueRange returns the value axis for this channel alone:
// (0, max(observedMax*(1+margin), DefaultFloor)).
func (c *Channel) ValueRange(margin float64) (ValueRange, bool) {
	return JointValueRange(margin, DefaultFloor, c)
}

// TimeRange returns the time axis for this channel alone. See JointTimeRange.
func (c *Channel) TimeRange(endPadding, minWindow time.Duration) (TimeRange, bool) {
	return JointTimeRange(endPadding, minWindow, c)
}

// Reset drops all samples, keeping the capacity.
func (c *Channel) Reset() {
	c.head = 0
	c.count = 0
	for i := range c.data {
		c.data[i] = Sample{}
	}
}

// index maps a logical position (0 = oldest) to a slot in data.
func (c *Channel) index(i int) int {
	oldest := (c.head - c.count + c.size) % c.size
	return (oldest + i) % c.size
}
