// Package gauge animates dial readings toward their latest target in a fixed
// number of ticks and classifies the result into Low, Medium and High bands.
package gauge

import (
	"math"
	"time"
)

const (
	// DefaultTicks is the number of ticks a move takes.
	DefaultTicks = 20
	// DefaultTickInterval is the animation frame period.
	DefaultTickInterval = 30 * time.Millisecond
)

// Band thresholds on the normalized position.
const (
	LowThreshold    = 0.3
	MediumThreshold = 0.7
)

// Bucket is the qualitative band of a gauge value.
type Bucket int

const (
	Low Bucket = iota
	Medium
	High
)

func (b Bucket) String() string {
	switch b {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// BucketFor classifies a normalized position: below 0.3 is Low, below 0.7 is
// Medium, anything else is High.
func BucketFor(pos float64) Bucket {
	switch {
	case pos < LowThreshold:
		return Low
	case pos < MediumThreshold:
		return Medium
	default:
		return High
	}
}

// Animator moves a displayed value toward a target over a fixed number of
// ticks. It is driven by a single owner and is not safe for concurrent use.
type Animator struct {
	min, max float64
	current  float64
	target   float64
	step     float64
	ticks    int
}

// NewAnimator creates an animator resting at min. Swapped bounds are reordered.
func NewAnimator(min, max float64) *Animator {
	return NewAnimatorWithTicks(min, max, DefaultTicks)
}

// NewAnimatorWithTicks is NewAnimator with a custom tick count.
// Non-positive counts fall back to DefaultTicks.
func NewAnimatorWithTicks(min, max float64, ticks int) *Animator {
	if min > max {
		min, max = max, min
	}
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	return &Animator{
		min:     min,
		max:     max,
		current: min,
		target:  min,
		ticks:   ticks,
	}
}

// SetTarget clamps v into range and recomputes the step. Current is untouched.
func (a *Animator) SetTarget(v float64) {
	a.target = a.clamp(v)
	a.step = (a.target - a.current) / float64(a.ticks)
}

// Tick advances current by one step. The step never passes the target; once
// within half a step the value snaps onto it. Returns true if current moved.
func (a *Animator) Tick() bool {
	if a.current == a.target {
		a.step = 0
		return false
	}

	next := a.current + a.step
	overshoot := (a.step > 0 && next > a.target) || (a.step < 0 && next < a.target)
	if a.step == 0 || overshoot || math.Abs(a.target-next) <= math.Abs(a.step)/2 {
		next = a.target
	}
	a.current = next
	if a.current == a.target {
		a.step = 0
	}
	return true
}

// Settle jumps straight to the target.
func (a *Animator) Settle() {
	a.current = a.target
	a.step = 0
}

// Settled reports whether current has reached the target.
func (a *Animator) Settled() bool {
	return a.current == a.target
}

// Current returns the displayed value.
func (a *Animator) Current() float64 { return a.current }

// Target returns the value being animated toward.
func (a *Animator) Target() float64 { return a.target }

// Step returns the per-tick increment.
func (a *Animator) Step() float64 { return a.step }

// Min returns the lower bound.
func (a *Animator) Min() float64 { return a.min }

// Max returns the upper bound.
func (a *Animator) Max() float64 { return a.max }

// Ticks returns the number of ticks a full move takes.
func (a *Animator) Ticks() int { return a.ticks }

// NormalizedPosition maps current into [0,1]. A zero-width range yields 0.
func (a *Animator) NormalizedPosition() float64 {
	if a.max == a.min {
		return 0
	}
	return (a.current - a.min) / (a.max - a.min)
}

// Bucket classifies the current value.
func (a *Animator) Bucket() Bucket {
	return BucketFor(a.NormalizedPosition())
}

func (a *Animator) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return a.min
	}
	return math.Max(a.min, math.Min(a.max, v))
}
