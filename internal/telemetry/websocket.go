package telemetry

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/logger"
)

// DefaultReconnectDelay is how long a dropped socket waits before redialing.
const DefaultReconnectDelay = 3 * time.Second

// TopicURL joins the WebSocket base URL and a topic, e.g.
// ws://localhost:8080/ws + modbus/data.
func TopicURL(base, topic string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(topic, "/")
}

// WebSocketSource subscribes to one topic over a WebSocket and redials when
// the connection drops.
type WebSocketSource struct {
	topic     string
	url       string
	reconnect time.Duration
	log       logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// WebSocketOption configures a WebSocketSource.
type WebSocketOption func(*WebSocketSource)

// WithReconnectDelay sets the redial delay. Zero or negative disables redialing.
func WithReconnectDelay(d time.Duration) WebSocketOption {
	return func(s *WebSocketSource) {
		s.reconnect = d
	}
}

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(l logger.Logger) WebSocketOption {
	return func(s *WebSocketSource) {
		if l != nil {
			s.log = l
		}
	}
}

// NewWebSocketSource creates a source for topic under the base URL.
func NewWebSocketSource(baseURL, topic string, opts ...WebSocketOption) *WebSocketSource {
	s := &WebSocketSource{
		topic:     topic,
		url:       TopicURL(baseURL, topic),
		reconnect: DefaultReconnectDelay,
		log:       logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Topic implements Source.
func (s *WebSocketSource) Topic() string {
	return s.topic
}

// URL returns the full socket URL.
func (s *WebSocketSource) URL() string {
	return s.url
}

// Run implements Source. It returns nil on cancellation and the last dial or
// read error when redialing is disabled.
func (s *WebSocketSource) Run(ctx context.Context, out chan<- Event) error {
	for {
		err := s.session(ctx, out)
		if ctx.Err() != nil {
			return nil
		}

		ev := Event{Topic: s.topic, Kind: EventDisconnected}
		if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
			ev.Err = err
		}
		if !emit(ctx, out, ev) {
			return nil
		}

		if s.reconnect <= 0 {
			return err
		}
		s.log.Debug("%s: reconnecting in %s", s.topic, s.reconnect)
		if !sleep(ctx, s.reconnect) {
			return nil
		}
	}
}

// session dials once and reads until the connection fails.
func (s *WebSocketSource) session(ctx context.Context, out chan<- Event) error {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		s.log.Debug("%s: dial %s failed: %v", s.topic, s.url, err)
		return err
	}
	s.setConn(conn)
	defer func() {
		s.setConn(nil)
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.log.Info("%s: connected to %s", s.topic, s.url)
	if !emit(ctx, out, Event{Topic: s.topic, Kind: EventConnected}) {
		return ctx.Err()
	}

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		reading, err := Decode(data)
		ev := Event{Topic: s.topic, Kind: EventReading, Reading: reading}
		if err != nil {
			s.log.Warn("%s: rejected message: %v", s.topic, err)
			ev = Event{Topic: s.topic, Kind: EventRejected, Err: err}
		}
		if !emit(ctx, out, ev) {
			return ctx.Err()
		}
	}
}

func (s *WebSocketSource) setConn(c *websocket.Conn) {
	s.mu.Lock()
	s.conn = c
	s.mu.Unlock()
}

// Connected reports whether a socket is currently open.
func (s *WebSocketSource) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send implements Source.
func (s *WebSocketSource) Send(ctx context.Context, command string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return errors.New(errors.ErrDevice,
			"WebSocket for "+s.topic+" is not connected",
			"Wait for the location to come online and try again")
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(command)); err != nil {
		if stderrors.Is(err, context.Canceled) {
			return err
		}
		return errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't send "+command+" to "+s.topic,
			"Check the connection to the telemetry server")
	}
	s.log.Info("%s: sent %q", s.topic, command)
	return nil
}

// SendOnce dials the topic, writes a single command and closes the socket.
// Used by the device CLI command, which has no long-lived source.
func SendOnce(ctx context.Context, baseURL, topic, command string) error {
	url := TopicURL(baseURL, topic)
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't connect to "+url,
			"Check backend.websocket_url in your config")
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if err := conn.Write(ctx, websocket.MessageText, []byte(command)); err != nil {
		return errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't send "+command+" to "+topic,
			"Check the connection to the telemetry server")
	}
	return nil
}
