package logger

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdLog redirects the process-wide log output for one test.
func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		debug string
		emit  func(Logger)
		want  string
	}{
		{
			name: "info",
			emit: func(l Logger) { l.Info("connected to %s", "modbus/data") },
			want: "[telemetry] connected to modbus/data",
		},
		{
			name: "warn",
			emit: func(l Logger) { l.Warn("rejected message on %s", "topic2") },
			want: "[telemetry] WARN: rejected message on topic2",
		},
		{
			name: "error",
			emit: func(l Logger) { l.Error("dial failed: %v", "refused") },
			want: "[telemetry] ERROR: dial failed: refused",
		},
		{
			name:  "debug with POWERDASH_DEBUG set",
			debug: "1",
			emit:  func(l Logger) { l.Debug("reading p1=%.1f", 1200.0) },
			want:  "[telemetry] reading p1=1200.0",
		},
		{
			name:  "debug without POWERDASH_DEBUG",
			debug: "",
			emit:  func(l Logger) { l.Debug("reading p1=%.1f", 1200.0) },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdLog(t)
			t.Setenv(DebugEnv, tt.debug)

			tt.emit(NewEnvLogger("[telemetry]"))

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestWriterLogger(t *testing.T) {
	global := captureStdLog(t)
	t.Setenv(DebugEnv, "")

	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "[monitor]")
	l.Warn("location %s offline", "Building 1")
	l.Debug("hidden")

	assert.Contains(t, buf.String(), "[monitor] WARN: location Building 1 offline")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Empty(t, global.String(), "writer logger must not touch the global log output")
}

func TestNoopLogger(t *testing.T) {
	buf := captureStdLog(t)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	assert.False(t, l.HasLevel("warn"))

	l.Info("schedules for %s loaded", "modbus/data")
	l.Warn("schedules for %s unavailable", "topic2")

	assert.Equal(t, []LogMessage{
		{Level: "info", Message: "schedules for modbus/data loaded"},
		{Level: "warn", Message: "schedules for topic2 unavailable"},
	}, l.Snapshot())
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestBufferLogger_SnapshotIsACopy(t *testing.T) {
	l := NewBufferLogger()
	l.Info("one")

	snap := l.Snapshot()
	l.Info("two")

	require.Len(t, snap, 1)
	assert.Len(t, l.Snapshot(), 2)
}

func TestBufferLogger_ConcurrentSources(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				l.Debug("source %d message %d", n, j)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Snapshot(), 200)
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	t.Cleanup(func() { defaultLogger = original })

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("via default %s", fmt.Sprint(1))

	assert.Equal(t, "via default 1", buf.Snapshot()[0].Message)
}
