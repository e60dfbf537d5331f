// Package backend talks to the powerdash HTTP backend, which stores schedules
// and recorded telemetry.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/logger"
	"github.com/rileyhilliard/powerdash/internal/records"
	"github.com/rileyhilliard/powerdash/internal/schedule"
)

// Endpoint paths.
const (
	SchedulerPath  = "/scheduler"
	RecordDataPath = "/recordData"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

// RecordTimeLayout is the timestamp format for record range queries.
const RecordTimeLayout = "2006-01-02T15:04:05"

// DefaultSchedulingID is sent with schedule mutations; the backend keys
// windows by topic and times.
const DefaultSchedulingID = "1"

// maxErrorBody caps how much of an error response is quoted back.
const maxErrorBody = 512

// Client calls the backend. All requests send a JSON body, including GETs.
type Client struct {
	baseURL   string
	clusterID string
	http      *http.Client
	log       logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for baseURL (e.g. http://localhost:8080).
func New(baseURL, clusterID string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		clusterID: clusterID,
		http:      &http.Client{Timeout: timeout},
		log:       logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scheduleRequest is the body of every /scheduler call.
type scheduleRequest struct {
	ClusterID    string `json:"cluster_id"`
	TopicName    string `json:"topic_name"`
	SchedulingID string `json:"scheduling_id,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
}

// recordRequest is the body of a /recordData call.
type recordRequest struct {
	ClusterID string `json:"cluster_id"`
	TopicName string `json:"topic_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ListSchedules fetches the windows stored for topic. The backend answers
// with [[start, end], ...] where each time begins with HH:MM:SS.
func (c *Client) ListSchedules(ctx context.Context, topic string) ([]schedule.Schedule, error) {
	var pairs [][]string
	body := scheduleRequest{ClusterID: c.clusterID, TopicName: topic}
	if err := c.do(ctx, http.MethodGet, SchedulerPath, body, &pairs); err != nil {
		return nil, err
	}

	out := make([]schedule.Schedule, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, errors.New(errors.ErrBackend,
				fmt.Sprintf("Schedule #%d from the backend has %d fields", i+1, len(pair)),
				"Expected [start, end] pairs")
		}
		start, err := schedule.ParseClock(pair[0])
		if err != nil {
			return nil, err
		}
		end, err := schedule.ParseClock(pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.Schedule{Start: start, End: end, Active: true})
	}
	return out, nil
}

// CreateSchedule stores a window for topic.
func (c *Client) CreateSchedule(ctx context.Context, topic string, s schedule.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, SchedulerPath, c.scheduleBody(topic, s), nil)
}

// DeleteSchedule removes the window for topic with the same start and end.
func (c *Client) DeleteSchedule(ctx context.Context, topic string, s schedule.Schedule) error {
	return c.do(ctx, http.MethodDelete, SchedulerPath, c.scheduleBody(topic, s), nil)
}

func (c *Client) scheduleBody(topic string, s schedule.Schedule) scheduleRequest {
	return scheduleRequest{
		ClusterID:    c.clusterID,
		TopicName:    topic,
		SchedulingID: DefaultSchedulingID,
		StartTime:    s.Start.Wire(),
		EndTime:      s.End.Wire(),
	}
}

// FetchRecords returns the readings recorded for topic between from and to.
func (c *Client) FetchRecords(ctx context.Context, topic string, from, to time.Time) ([]records.Record, error) {
	if !to.After(from) {
		return nil, errors.New(errors.ErrBackend,
			"The record range end must be after its start",
			"Check --from and --to")
	}

	body := recordRequest{
		ClusterID: c.clusterID,
		TopicName: topic,
		StartTime: from.Format(RecordTimeLayout),
		EndTime:   to.Format(RecordTimeLayout),
	}
	var recs []records.Record
	if err := c.do(ctx, http.MethodGet, RecordDataPath, body, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend, "Couldn't encode request", "")
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			"Invalid backend URL "+url,
			"Check backend.url in your config")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("%s %s %s", method, url, payload)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			"Can't reach the backend at "+c.baseURL,
			"Check backend.url in your config and that the backend is running")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend, "Couldn't read backend response", "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody] + "..."
		}
		return errors.New(errors.ErrBackend,
			fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode),
			snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			fmt.Sprintf("Unexpected response from %s", path),
			"The backend may be running an incompatible version")
	}
	return nil
}
