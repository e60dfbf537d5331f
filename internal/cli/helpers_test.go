package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/powerdash/internal/backend"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *telemetry.Registry {
	t.Helper()
	reg, err := telemetry.NewRegistry([]telemetry.Location{
		{Name: "Building 1", Topic: "modbus/data", Color: "green"},
		{Name: "Building 2", Topic: "modbus/registers", Color: "red"},
	})
	require.NoError(t, err)
	return reg
}

// plainOutput strips colors for the duration of a test.
func plainOutput(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

// withMachineMode turns on --json for one test.
func withMachineMode(t *testing.T) {
	t.Helper()
	prev := machineMode
	machineMode = true
	t.Cleanup(func() { machineMode = prev })
}

// request is one call seen by fakeBackend.
type request struct {
	Method string
	Path   string
	Body   map[string]string
}

// fakeBackend serves /scheduler and /recordData from memory.
type fakeBackend struct {
	mu        sync.Mutex
	schedules map[string][][2]string
	records   string
	status    int
	requests  []request
	srv       *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{schedules: map[string][][2]string{}, records: "[]"}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.New(fb.srv.URL, "7", 2*time.Second)
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]string
	_ = json.Unmarshal(raw, &body)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.requests = append(fb.requests, request{Method: r.Method, Path: r.URL.Path, Body: body})

	if fb.status != 0 {
		w.WriteHeader(fb.status)
		_, _ = io.WriteString(w, "backend exploded")
		return
	}

	topic := body["topic_name"]
	switch {
	case r.URL.Path == backend.RecordDataPath:
		_, _ = io.WriteString(w, fb.records)
	case r.Method == http.MethodGet:
		pairs := make([][]string, 0)
		for _, p := range fb.schedules[topic] {
			pairs = append(pairs, []string{p[0], p[1]})
		}
		_ = json.NewEncoder(w).Encode(pairs)
	case r.Method == http.MethodPost:
		fb.schedules[topic] = append(fb.schedules[topic], [2]string{body["start_time"], body["end_time"]})
	case r.Method == http.MethodDelete:
		kept := fb.schedules[topic][:0]
		for _, p := range fb.schedules[topic] {
			if p[0] != body["start_time"] || p[1] != body["end_time"] {
				kept = append(kept, p)
			}
		}
		fb.schedules[topic] = kept
	}
}

func (fb *fakeBackend) seed(topic, start, end string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.schedules[topic] = append(fb.schedules[topic], [2]string{start, end})
}

func (fb *fakeBackend) stored(topic string) [][2]string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([][2]string(nil), fb.schedules[topic]...)
}

func (fb *fakeBackend) seen() []request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]request(nil), fb.requests...)
}
