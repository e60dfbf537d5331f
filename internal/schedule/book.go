package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rileyhilliard/powerdash/internal/errors"
)

// Book holds the schedules of one location. Safe for concurrent use.
type Book struct {
	mu        sync.Mutex
	topic     string
	schedules []Schedule
	newID     func() string
}

// NewBook creates an empty book for topic.
func NewBook(topic string) *Book {
	return &Book{
		topic: topic,
		newID: uuid.NewString,
	}
}

// Topic returns the location topic the book belongs to.
func (b *Book) Topic() string {
	return b.topic
}

// Add validates a new window and stores it as active.
// A window identical to an existing one is rejected.
func (b *Book) Add(start, end Clock) (Schedule, error) {
	s := Schedule{Start: start, End: end, Active: true}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.schedules {
		if existing.SameWindow(s) {
			return Schedule{}, errors.New(errors.ErrSchedule,
				fmt.Sprintf("Schedule %s already exists", s.Label()),
				"Delete it first or pick different times")
		}
	}
	s.ID = b.newID()
	b.schedules = append(b.schedules, s)
	b.sortLocked()
	return s, nil
}

// Load replaces the book's contents with windows fetched from the backend.
// Windows that were already known keep their ID and Active flag.
func (b *Book) Load(windows []Schedule) error {
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	next := make([]Schedule, 0, len(windows))
	for _, w := range windows {
		merged := Schedule{Start: w.Start, End: w.End, Active: true, ID: w.ID}
		for _, old := range b.schedules {
			if old.SameWindow(w) {
				merged.ID = old.ID
				merged.Active = old.Active
				break
			}
		}
		if merged.ID == "" {
			merged.ID = b.newID()
		}
		next = append(next, merged)
	}
	b.schedules = next
	b.sortLocked()
	return nil
}

// Remove deletes the schedule matching ref. See Find.
func (b *Book) Remove(ref string) (Schedule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.findLocked(ref)
	if err != nil {
		return Schedule{}, err
	}
	s := b.schedules[i]
	b.schedules = append(b.schedules[:i], b.schedules[i+1:]...)
	return s, nil
}

// Toggle flips the Active flag of the schedule matching ref.
func (b *Book) Toggle(ref string) (Schedule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.findLocked(ref)
	if err != nil {
		return Schedule{}, err
	}
	b.schedules[i].Active = !b.schedules[i].Active
	return b.schedules[i], nil
}

// Find resolves ref, which may be a 1-based list position, a full ID or a
// unique ID prefix. Positions win over ID prefixes.
func (b *Book) Find(ref string) (Schedule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.findLocked(ref)
	if err != nil {
		return Schedule{}, err
	}
	return b.schedules[i], nil
}

func (b *Book) findLocked(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, errors.New(errors.ErrSchedule, "No schedule given", "Pass a schedule ID or list number")
	}

	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= len(b.schedules) {
		return pos - 1, nil
	}

	match := -1
	for i, s := range b.schedules {
		if s.ID == ref {
			return i, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			if match >= 0 {
				return -1, errors.New(errors.ErrSchedule,
					fmt.Sprintf("Schedule reference %q is ambiguous", ref),
					"Use more characters of the ID")
			}
			match = i
		}
	}
	if match < 0 {
		return -1, errors.New(errors.ErrSchedule,
			fmt.Sprintf("No schedule matches %q", ref),
			"Run 'powerdash schedule list' to see schedule IDs")
	}
	return match, nil
}

// All returns the schedules ordered by start time.
func (b *Book) All() []Schedule {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Schedule, len(b.schedules))
	copy(out, b.schedules)
	return out
}

// Len returns the number of schedules.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.schedules)
}

// ActiveAt reports whether any active schedule covers the time of day of t.
func (b *Book) ActiveAt(t time.Time) bool {
	c := ClockOf(t)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.schedules {
		if s.Active && s.Contains(c) {
			return true
		}
	}
	return false
}

func (b *Book) sortLocked() {
	sort.SliceStable(b.schedules, func(i, j int) bool {
		if b.schedules[i].Start != b.schedules[j].Start {
			return b.schedules[i].Start < b.schedules[j].Start
		}
		return b.schedules[i].End < b.schedules[j].End
	})
}
