package session

import (
	"time"

	"github.com/kube-copilot/copilot/internal/model"
)

// Config configures a session manager.
type Config struct {
	URL              string        // Backend WebSocket URL
	PingInterval     time.Duration // Heartbeat probe interval
	PongTimeout      time.Duration // Deadline for the pong reply
	HandshakeTimeout time.Duration // Transport dial deadline
	WriteTimeout     time.Duration // Transport write deadline
	BufferSize       int           // Transport event buffer size
}

// DefaultConfig returns sensible defaults for a local backend.
func DefaultConfig() Config {
	return Config{
		URL:              "ws://localhost:8000/ws",
		PingInterval:     5 * time.Second,
		PongTimeout:      2 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}

// Stats provides counters about one manager instance.
type Stats struct {
	MessagesReceived  int64
	ParseErrors       int64
	UnknownMessages   int64
	TranscriptUpdates int64
	InsightsKept      int64
	InsightsDeduped   int64
	PingsSent         int64
	PongsReceived     int64
}

// Observer receives session events. Callbacks run on the manager's event
// loop and must not block; a blocking callback stalls all dispatch.
type Observer interface {
	// OnStatusChange fires on every status transition.
	OnStatusChange(from, to model.Status)

	// OnTranscript fires when a new full-text transcript snapshot replaces
	// the stored one.
	OnTranscript(text string)

	// OnInsight fires for each insight that survives deduplication.
	OnInsight(insight model.Insight)
}

// Callbacks adapts plain functions to the Observer interface. Nil fields
// are skipped, so a zero Callbacks is a valid no-op observer.
type Callbacks struct {
	StatusChange func(from, to model.Status)
	Transcript   func(text string)
	Insight      func(insight model.Insight)
}

func (c Callbacks) OnStatusChange(from, to model.Status) {
	if c.StatusChange != nil {
		c.StatusChange(from, to)
	}
}

func (c Callbacks) OnTranscript(text string) {
	if c.Transcript != nil {
		c.Transcript(text)
	}
}

func (c Callbacks) OnInsight(insight model.Insight) {
	if c.Insight != nil {
		c.Insight(insight)
	}
}
