package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleList(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)
	fb.seed("modbus/data", "09:00:00", "10:00:00")
	fb.seed("modbus/data", "08:00:00", "08:30:00")
	fb.seed("modbus/registers", "18:00:00", "19:00:00")

	var buf bytes.Buffer
	err := scheduleListCommand(context.Background(), &buf, fb.client(), testRegistry(t), "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "08:00 AM - 08:30 AM")
	assert.Contains(t, out, "09:00 AM - 10:00 AM")
	assert.Contains(t, out, "06:00 PM - 07:00 PM")
	assert.Contains(t, out, "30m0s")
	assert.Less(t, strings.Index(out, "08:00 AM"), strings.Index(out, "09:00 AM"), "sorted by start")
	assert.Len(t, fb.seen(), 2, "one request per location")
}

func TestScheduleList_OneLocation(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)
	fb.seed("modbus/registers", "18:00:00", "19:00:00")

	var buf bytes.Buffer
	err := scheduleListCommand(context.Background(), &buf, fb.client(), testRegistry(t), "Building 2")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "06:00 PM - 07:00 PM")

	reqs := fb.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "modbus/registers", reqs[0].Body["topic_name"])
	assert.Equal(t, "7", reqs[0].Body["cluster_id"])
}

func TestScheduleList_Empty(t *testing.T) {
	fb := newFakeBackend(t)

	var buf bytes.Buffer
	require.NoError(t, scheduleListCommand(context.Background(), &buf, fb.client(), testRegistry(t), ""))
	assert.Contains(t, buf.String(), "No schedules.")
}

func TestScheduleList_JSON(t *testing.T) {
	withMachineMode(t)
	fb := newFakeBackend(t)
	fb.seed("modbus/data", "09:00:00", "10:00:00")

	var buf bytes.Buffer
	require.NoError(t, scheduleListCommand(context.Background(), &buf, fb.client(), testRegistry(t), "modbus/data"))

	var env struct {
		Success bool              `json:"success"`
		Data    []ScheduleListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, []ScheduleListing{
		{Location: "Building 1", Topic: "modbus/data", Position: 1, Start: "09:00:00", End: "10:00:00"},
	}, env.Data)
}

func TestScheduleList_UnknownLocation(t *testing.T) {
	fb := newFakeBackend(t)
	err := scheduleListCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), "Building 9")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Empty(t, fb.seen())
}

func TestScheduleAdd(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)

	var buf bytes.Buffer
	err := scheduleAddCommand(context.Background(), &buf, fb.client(), testRegistry(t), ScheduleAddOptions{
		Location: "Building 1",
		Start:    "08:00",
		End:      "5:30 PM",
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"08:00:00", "17:30:00"}}, fb.stored("modbus/data"))
	assert.Contains(t, buf.String(), "Scheduling 08:00 AM - 05:30 PM for Building 1")

	reqs := fb.seen()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, http.MethodPost, reqs[1].Method)
	assert.Equal(t, "1", reqs[1].Body["scheduling_id"])
}

func TestScheduleAdd_JSON(t *testing.T) {
	withMachineMode(t)
	fb := newFakeBackend(t)
	fb.seed("modbus/data", "06:00:00", "07:00:00")

	var buf bytes.Buffer
	err := scheduleAddCommand(context.Background(), &buf, fb.client(), testRegistry(t), ScheduleAddOptions{
		Location: "modbus/data", Start: "09:00", End: "10:00",
	})
	require.NoError(t, err)

	var env struct {
		Data ScheduleListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, 2, env.Data.Position)
	assert.Equal(t, "09:00:00", env.Data.Start)
}

func TestScheduleAdd_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		opts    ScheduleAddOptions
		code    string
		message string
	}{
		{
			name:    "missing values without a terminal",
			opts:    ScheduleAddOptions{Location: "Building 1", Start: "08:00"},
			code:    errors.ErrSchedule,
			message: "are required",
		},
		{
			name:    "unknown location",
			opts:    ScheduleAddOptions{Location: "Nowhere", Start: "08:00", End: "09:00"},
			code:    errors.ErrConfig,
			message: "Unknown location",
		},
		{
			name:    "unparseable start",
			opts:    ScheduleAddOptions{Location: "Building 1", Start: "breakfast", End: "09:00"},
			code:    errors.ErrSchedule,
			message: "isn't a time of day",
		},
		{
			name:    "end before start",
			opts:    ScheduleAddOptions{Location: "Building 1", Start: "09:00", End: "08:00"},
			code:    errors.ErrSchedule,
			message: "must be after start time",
		},
		{
			name:    "same window as an existing schedule",
			opts:    ScheduleAddOptions{Location: "Building 1", Start: "06:00", End: "07:00"},
			code:    errors.ErrSchedule,
			message: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.seed("modbus/data", "06:00:00", "07:00:00")

			err := scheduleAddCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.message)

			for _, r := range fb.seen() {
				assert.NotEqual(t, http.MethodPost, r.Method, "nothing is created")
			}
		})
	}
}

func TestScheduleDelete(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)
	fb.seed("modbus/data", "09:00:00", "10:00:00")
	fb.seed("modbus/data", "08:00:00", "08:30:00")

	var buf bytes.Buffer
	err := scheduleDeleteCommand(context.Background(), &buf, fb.client(), testRegistry(t), "Building 1", "2", false)
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"08:00:00", "08:30:00"}}, fb.stored("modbus/data"))
	assert.Contains(t, buf.String(), "Removing 09:00 AM - 10:00 AM from Building 1")
}

func TestScheduleDelete_NoMatch(t *testing.T) {
	fb := newFakeBackend(t)
	fb.seed("modbus/data", "09:00:00", "10:00:00")

	err := scheduleDeleteCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), "Building 1", "nope", false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSchedule))
	assert.Len(t, fb.stored("modbus/data"), 1)
}

func TestSchedule_BackendFailure(t *testing.T) {
	plainOutput(t)
	fb := newFakeBackend(t)
	fb.status = http.StatusInternalServerError

	err := scheduleListCommand(context.Background(), &bytes.Buffer{}, fb.client(), testRegistry(t), "Building 1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBackend))
	assert.Contains(t, err.Error(), "returned 500")
}
