package telemetry

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/util"
)

// Location is a monitored site bound to one telemetry topic.
type Location struct {
	Name  string
	Topic string
	Color string
	// Index is the position in configuration order.
	Index int
}

// Registry maps topics to locations. It is built once at startup and passed
// to whoever needs it.
type Registry struct {
	locations []Location
	byTopic   map[string]int
	byName    map[string]int
}

// NewRegistry builds a registry, rejecting empty or duplicate topics and names.
func NewRegistry(locations []Location) (*Registry, error) {
	r := &Registry{
		locations: make([]Location, 0, len(locations)),
		byTopic:   make(map[string]int, len(locations)),
		byName:    make(map[string]int, len(locations)),
	}
	for i, loc := range locations {
		if loc.Topic == "" {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Location #%d has no topic", i+1),
				"Set a topic for every entry under locations")
		}
		if _, dup := r.byTopic[loc.Topic]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Topic %q is used by more than one location", loc.Topic),
				"Each location needs its own topic")
		}
		if loc.Name == "" {
			loc.Name = loc.Topic
		}
		key := strings.ToLower(loc.Name)
		if _, dup := r.byName[key]; dup {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Location name %q is used more than once", loc.Name),
				"Give every location a unique name")
		}
		loc.Index = i
		r.locations = append(r.locations, loc)
		r.byTopic[loc.Topic] = i
		r.byName[key] = i
	}
	return r, nil
}

// Locations returns the locations in configuration order.
func (r *Registry) Locations() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Len returns the number of locations.
func (r *Registry) Len() int {
	return len(r.locations)
}

// ByTopic finds the location subscribed to topic.
func (r *Registry) ByTopic(topic string) (Location, bool) {
	i, ok := r.byTopic[topic]
	if !ok {
		return Location{}, false
	}
	return r.locations[i], true
}

// ByName finds a location by name, ignoring case.
func (r *Registry) ByName(name string) (Location, bool) {
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Location{}, false
	}
	return r.locations[i], true
}

// Lookup accepts either a location name or a topic.
func (r *Registry) Lookup(nameOrTopic string) (Location, error) {
	if loc, ok := r.ByName(nameOrTopic); ok {
		return loc, nil
	}
	if loc, ok := r.ByTopic(nameOrTopic); ok {
		return loc, nil
	}

	names := make([]string, len(r.locations))
	for i, loc := range r.locations {
		names[i] = loc.Name
	}
	suggestion := "Known locations: " + util.JoinOrNone(names)
	if near := util.SuggestSimilar(nameOrTopic, names, 3); len(near) > 0 {
		suggestion = fmt.Sprintf("Did you mean %q? %s", near[0], suggestion)
	}
	return Location{}, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown location %q", nameOrTopic), suggestion)
}
