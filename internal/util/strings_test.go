package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"nil", nil, "(none)"},
		{"empty", []string{}, "(none)"},
		{"one location", []string{"Building 1"}, "Building 1"},
		{"several locations", []string{"Building 1", "Building 2", "Building 3"}, "Building 1, Building 2, Building 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinOrNone(tt.items))
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "no schedules", JoinOrDefault(nil, "no schedules"))
	assert.Equal(t, "", JoinOrDefault([]string{}, ""))
	assert.Equal(t, "on, off", JoinOrDefault([]string{"on", "off"}, "unused"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{-1, "records"},
		{0, "records"},
		{1, "record"},
		{2, "records"},
		{100, "records"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "record", "records"), "count %d", tt.count)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"device", "devcie", 2},   // transposition (2 edits)
		{"record", "records", 1},  // insertion
		{"records", "record", 1},  // deletion
		{"monitor", "Monitor", 1}, // case difference
		{"kitten", "sitting", 3},  // classic example
		{"cafe", "café", 1},       // runes, not bytes
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"monitor", "schedule", "records", "device", "location", "init", "version", "completion"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "dropped letter", input: "monitr", expected: []string{"monitor"}},
		{name: "missing plural", input: "record", expected: []string{"records"}},
		{name: "swapped letters", input: "verison", expected: []string{"version"}},
		{name: "substitution", input: "devise", expected: []string{"device"}},
		{name: "case insensitive", input: "MONITOR", expected: []string{"monitor"}},
		{name: "exact match returns it", input: "init", expected: []string{"init"}},
		{name: "no close match returns nil", input: "xyz", expected: nil},
		{name: "empty input returns nil", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, candidates, 3))
		})
	}
}

func TestSuggestSimilar_OrdersByDistance(t *testing.T) {
	locations := []string{"Building 1", "Building 2", "Building 3"}
	assert.Equal(t, []string{"Building 2", "Building 1", "Building 3"}, SuggestSimilar("Bilding 2", locations, 3))
	assert.Nil(t, SuggestSimilar("Annex", locations, 3))
}

func TestSuggestSimilar_EmptyCandidates(t *testing.T) {
	assert.Nil(t, SuggestSimilar("monitor", nil, 3))
	assert.Nil(t, SuggestSimilar("monitor", []string{}, 3))
}
