package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordFixture = `[
  {"timestamp":"2024-05-01T10:00:00","v1":229,"v2":230,"v3":231,"c1":1,"c2":2,"c3":3,"p1":100,"p2":200,"p3":300},
  {"timestamp":"2024-05-01T10:01:00","v1":220,"v2":220,"v3":220,"c1":10,"c2":10,"c3":10,"p1":1000,"p2":1000,"p3":1000}
]`

var recordsNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRecords_Table(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)
	fb.records = recordFixture

	var buf bytes.Buffer
	err := recordsCommand(context.Background(), &buf, fb.client(), testRegistry(t), RecordsOptions{
		Location: "Building 1",
		From:     "2024-05-01T10:00:00",
		To:       "2024-05-01 11:00",
	}, recordsNow)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2024-05-01T10:01:00")
	assert.Contains(t, out, "600.00")
	assert.Contains(t, out, "2 records, peak power 3000.00 W")

	reqs := fb.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]string{
		"cluster_id": "7",
		"topic_name": "modbus/data",
		"start_time": "2024-05-01T10:00:00",
		"end_time":   "2024-05-01T11:00:00",
	}, reqs[0].Body)
}

func TestRecords_DefaultWindow(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)

	var buf bytes.Buffer
	err := recordsCommand(context.Background(), &buf, fb.client(), testRegistry(t), RecordsOptions{Location: "modbus/data"}, recordsNow)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No records in the selected range")

	reqs := fb.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "2024-05-01T11:00:00", reqs[0].Body["start_time"])
	assert.Equal(t, "2024-05-01T12:00:00", reqs[0].Body["end_time"])
}

func TestRecords_RelativeFrom(t *testing.T) {
	fb := newFakeBackend(t)

	err := recordsCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), RecordsOptions{
		Location: "Building 2",
		From:     "6h",
	}, recordsNow)
	require.NoError(t, err)

	reqs := fb.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "modbus/registers", reqs[0].Body["topic_name"])
	assert.Equal(t, "2024-05-01T06:00:00", reqs[0].Body["start_time"])
}

func TestRecords_JSON(t *testing.T) {
	fb := newFakeBackend(t)
	fb.records = recordFixture

	var buf bytes.Buffer
	err := recordsCommand(context.Background(), &buf, fb.client(), testRegistry(t), RecordsOptions{
		Location: "Building 1",
		From:     "2024-05-01",
		JSON:     true,
	}, recordsNow)
	require.NoError(t, err)

	var doc struct {
		Topic string `json:"topic"`
		Rows  []struct {
			Timestamp      string  `json:"timestamp"`
			TotalPower     float64 `json:"total_power"`
			AverageVoltage float64 `json:"average_voltage"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "modbus/data", doc.Topic)
	require.Len(t, doc.Rows, 2)
	assert.InDelta(t, 600, doc.Rows[0].TotalPower, 1e-9)
	assert.InDelta(t, 230, doc.Rows[0].AverageVoltage, 1e-9)
}

func TestRecords_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts RecordsOptions
		code string
	}{
		{"unknown location", RecordsOptions{Location: "Building 7"}, errors.ErrConfig},
		{"bad from", RecordsOptions{Location: "Building 1", From: "yesterday-ish"}, errors.ErrConfig},
		{"bad to", RecordsOptions{Location: "Building 1", To: "31/12/2024"}, errors.ErrConfig},
		{"end before start", RecordsOptions{Location: "Building 1", From: "2024-05-01T12:00:00", To: "2024-05-01T08:00:00"}, errors.ErrBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			err := recordsCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), tt.opts, recordsNow)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
			assert.Empty(t, fb.seen())
		})
	}
}
