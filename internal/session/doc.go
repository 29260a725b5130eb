// Package session implements the Connection Session Manager.
//
// The manager owns one streaming connection's full lifecycle:
//   - drives the Idle/Initializing/Listening/Stopping/Disconnected state machine
//   - negotiates the start/stop handshake with the backend pipeline
//   - probes liveness with an application-level ping/pong heartbeat
//   - deduplicates consecutively repeated insights
//   - presents a simplified status + data model to a registered observer
//
// All state transitions happen on a single event-loop goroutine; caller
// operations, transport events, and timer firings are serialized onto it.
// Transport failures are never retried automatically: the manager surfaces
// Disconnected and recovery requires an explicit Start.
package session
