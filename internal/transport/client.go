package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a single WebSocket connection to the backend.
type Client interface {
	// Connect establishes the WebSocket connection.
	Connect(ctx context.Context) error

	// Send writes raw bytes to the connection as one text frame.
	Send(data []byte) error

	// Close ends the connection, recording cause before the close is issued.
	// The recorded cause is echoed on the EventClosed event. Safe to call
	// more than once; only the first call takes effect.
	Close(cause CloseCause) error

	// Events returns the event channel. It delivers received frames and is
	// closed after the final EventClosed event.
	Events() <-chan Event

	// IsConnected returns current connection state.
	IsConnected() bool
}

// client implements the Client interface.
type client struct {
	cfg    Config
	logger *slog.Logger

	conn *websocket.Conn

	events chan Event

	// Write serialization
	writeMu sync.Mutex

	// State
	mu        sync.RWMutex
	connected bool
	closed    bool
	finished  bool
	cause     CloseCause
}

// NewClient creates a new WebSocket client.
func NewClient(cfg Config, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:    cfg,
		logger: logger,
		events: make(chan Event, cfg.BufferSize),
	}
}

// Connect establishes the WebSocket connection.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		// Closed while dialing; the read loop never starts.
		cause := c.cause
		c.mu.Unlock()
		conn.Close()
		c.finish(Event{Kind: EventClosed, Cause: cause})
		return ErrAlreadyClosed
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()

	c.logger.Debug("websocket connected", "url", c.cfg.URL)

	return nil
}

// Close ends the connection. The cause is recorded before the close frame is
// sent so that a close event arriving immediately after is still classified
// correctly.
func (c *client) Close(cause CloseCause) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cause = cause
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		// Never connected; no read loop to deliver the close event.
		c.finish(Event{Kind: EventClosed, Cause: cause})
		return nil
	}

	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return conn.Close()
}

// Send writes raw bytes to the connection.
func (c *client) Send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Events returns the event channel.
func (c *client) Events() <-chan Event {
	return c.events
}

// IsConnected returns the current connection state.
func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// finish delivers the final close event exactly once and closes the event
// channel. Close and a racing Connect can both reach a finishing path.
func (c *client) finish(ev Event) {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.finished = true
	c.mu.Unlock()

	c.events <- ev
	close(c.events)
}

// readLoop reads frames until the connection dies, then delivers the final
// close event and closes the event channel.
func (c *client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			c.mu.Lock()
			cause := c.cause
			readErr := err
			if c.closed {
				// Expected failure after a local Close; keep its cause.
				readErr = nil
			} else {
				c.closed = true
				c.cause = CauseRemote
				cause = CauseRemote
			}
			c.connected = false
			c.mu.Unlock()

			c.finish(Event{Kind: EventClosed, Cause: cause, Err: readErr})
			return
		}

		ev := Event{Kind: EventMessage, Data: data, ReceivedAt: receivedAt}
		select {
		case c.events <- ev:
		default:
			c.logger.Warn("event buffer full, dropping frame")
		}
	}
}
