package model

import (
	"time"

	"github.com/google/uuid"
)

// Language selects the transcription language for a session.
type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is a language the backend accepts.
func (l Language) Valid() bool {
	return l == LanguageGerman || l == LanguageEnglish
}

// Status is the session connection state as seen by the presentation layer.
type Status string

const (
	// StatusIdle means no transport is live and no session is wanted.
	StatusIdle Status = "idle"

	// StatusInitializing means a transport is being opened or the start
	// handshake is in flight; no listening confirmation yet.
	StatusInitializing Status = "initializing"

	// StatusListening means the backend confirmed the session is live.
	StatusListening Status = "listening"

	// StatusStopping means a graceful stop was requested and the client is
	// waiting for the backend to confirm before closing the transport.
	StatusStopping Status = "stopping"

	// StatusDisconnected means the transport died without a client-initiated
	// close. Recovery requires an explicit Start.
	StatusDisconnected Status = "disconnected"
)

// Insight is one analysis item emitted by the backend pipeline.
type Insight struct {
	ID         uuid.UUID // Local identifier, generated on receipt
	Text       string    // Insight text; may contain embedded line breaks
	ReceivedAt time.Time // Local receive timestamp
}

// Snapshot is a point-in-time copy of one session's visible state.
//
// Insights are ordered newest-first.
type Snapshot struct {
	Language   Language
	SessionID  string
	Status     Status
	Transcript string // Latest full-text transcript, replaced not appended
	Insights   []Insight
}
