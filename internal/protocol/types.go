package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/kube-copilot/copilot/internal/model"
)

// Client -> server action names.
const (
	ActionStart = "start"
	ActionStop  = "stop"
	ActionPing  = "ping"
)

// Server -> client message types.
const (
	TypeStatus     = "status"
	TypeTranscript = "transcript"
	TypeInsight    = "insight"
	TypePong       = "pong"
)

// Status payload values for TypeStatus messages.
const (
	StatusListening = "listening"
	StatusStopped   = "stopped"
)

// Action is a client -> server frame.
type Action struct {
	Action    string `json:"action"`
	Language  string `json:"language,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Message is a server -> client frame.
type Message struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// EncodeStart builds the start frame that begins a capture+analysis session.
func EncodeStart(language model.Language, sessionID string) ([]byte, error) {
	return json.Marshal(Action{
		Action:    ActionStart,
		Language:  string(language),
		SessionID: sessionID,
	})
}

// EncodeStop builds the graceful shutdown request frame.
func EncodeStop() ([]byte, error) {
	return json.Marshal(Action{Action: ActionStop})
}

// EncodePing builds the heartbeat probe frame.
func EncodePing() ([]byte, error) {
	return json.Marshal(Action{Action: ActionPing})
}

// Parse decodes a server frame. A frame without a type field is malformed.
func Parse(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("parse server frame: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("server frame missing type: %s", data)
	}
	return msg, nil
}
