package transport

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// CloseCause classifies why a connection ended.
type CloseCause string

const (
	// CauseClient is a client-initiated close: graceful stop, supersede by a
	// new session, or teardown.
	CauseClient CloseCause = "client"

	// CauseLiveness is a forced close after an unanswered heartbeat probe.
	CauseLiveness CloseCause = "liveness"

	// CauseRemote is a server-side close or a transport failure.
	CauseRemote CloseCause = "remote"
)

// SelfInitiated reports whether the close counts as requested by this client.
// A liveness kill is locally issued but deliberately classified as not
// self-initiated: it signals connection death, not intent to stop.
func (c CloseCause) SelfInitiated() bool {
	return c == CauseClient
}

// EventKind discriminates transport events.
type EventKind int

const (
	// EventMessage carries one received frame.
	EventMessage EventKind = iota

	// EventClosed is the final event for a connection; the event channel is
	// closed right after it is delivered.
	EventClosed
)

// Event is one occurrence on the connection.
type Event struct {
	Kind       EventKind
	Data       []byte     // Raw frame bytes (EventMessage)
	ReceivedAt time.Time  // Local receive timestamp (EventMessage)
	Cause      CloseCause // Why the connection ended (EventClosed)
	Err        error      // Underlying failure, nil for expected closes (EventClosed)
}

// Config configures a WebSocket client.
type Config struct {
	URL              string        // WebSocket URL (e.g., ws://localhost:8000/ws)
	HandshakeTimeout time.Duration // Dial handshake deadline
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Event channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}
