package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsURL turns an httptest server URL into a ws:// base.
func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestTopicURL(t *testing.T) {
	tests := []struct {
		base, topic, want string
	}{
		{"ws://localhost:8080/ws", "modbus/data", "ws://localhost:8080/ws/modbus/data"},
		{"ws://localhost:8080/ws/", "topic2", "ws://localhost:8080/ws/topic2"},
		{"ws://host/ws", "/topic2", "ws://host/ws/topic2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TopicURL(tt.base, tt.topic))
	}
}

func TestWebSocketSource_StreamsEvents(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		_ = conn.Write(ctx, websocket.MessageText, []byte(validMessage))
		_ = conn.Write(ctx, websocket.MessageBinary, []byte{0x01, 0x02})
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"v1":1}`))
		_ = conn.Close(websocket.StatusNormalClosure, "done")
	}))
	defer srv.Close()

	src := NewWebSocketSource(wsURL(srv)+"/ws", "modbus/data", WithReconnectDelay(0))
	assert.Equal(t, "modbus/data", src.Topic())

	out := make(chan Event, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = src.Run(ctx, out)
		close(done)
	}()

	ev := nextEvent(t, out)
	assert.Equal(t, EventConnected, ev.Kind)
	assert.Equal(t, "modbus/data", ev.Topic)

	ev = nextEvent(t, out)
	require.Equal(t, EventReading, ev.Kind)
	assert.Equal(t, 230.5, ev.Reading.V1)
	assert.False(t, ev.Timestamp.IsZero())

	// The binary frame is skipped, so the next event is the rejection.
	ev = nextEvent(t, out)
	require.Equal(t, EventRejected, ev.Kind)
	assert.True(t, errors.IsCode(ev.Err, errors.ErrTelemetry))

	ev = nextEvent(t, out)
	assert.Equal(t, EventDisconnected, ev.Kind)
	assert.NoError(t, ev.Err, "normal closure is not an error")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return with reconnect disabled")
	}
	assert.Equal(t, "/ws/modbus/data", <-paths)
	assert.False(t, src.Connected())
}

func TestWebSocketSource_Send(t *testing.T) {
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			received <- string(data)
		}
	}))
	defer srv.Close()

	src := NewWebSocketSource(wsURL(srv), "topic2", WithReconnectDelay(0))
	out := make(chan Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = src.Run(ctx, out) }()

	require.Equal(t, EventConnected, nextEvent(t, out).Kind)
	require.NoError(t, src.Send(ctx, CommandOn))

	select {
	case cmd := <-received:
		assert.Equal(t, "MOTOR ON", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the command")
	}
}

func TestWebSocketSource_SendWhileDisconnected(t *testing.T) {
	src := NewWebSocketSource("ws://127.0.0.1:1", "topic2")
	err := src.Send(context.Background(), CommandOff)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
	assert.Contains(t, err.Error(), "not connected")
}

func TestWebSocketSource_DialFailureReportsDisconnect(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	src := NewWebSocketSource(url, "topic2", WithReconnectDelay(0))
	out := make(chan Event, 4)
	err := src.Run(context.Background(), out)

	require.Error(t, err)
	ev := nextEvent(t, out)
	assert.Equal(t, EventDisconnected, ev.Kind)
	assert.Error(t, ev.Err)
}

func TestWebSocketSource_ReconnectsUntilCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}))
	defer srv.Close()

	src := NewWebSocketSource(wsURL(srv), "topic2", WithReconnectDelay(10*time.Millisecond))
	out := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, out) }()

	connects := 0
	for connects < 2 {
		if nextEvent(t, out).Kind == EventConnected {
			connects++
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestSendOnce(t *testing.T) {
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		_, data, err := conn.Read(r.Context())
		if err == nil {
			received <- string(data)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, SendOnce(ctx, wsURL(srv), "modbus/data", CommandOff))

	select {
	case cmd := <-received:
		assert.Equal(t, "MOTOR OFF", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the command")
	}
}

func TestSendOnce_DialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	err := SendOnce(context.Background(), url, "modbus/data", CommandOn)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
}
