// Package protocol defines the JSON wire protocol spoken with the co-pilot
// backend over the WebSocket connection.
//
// Client -> server frames carry an "action" field (start, stop, ping).
// Server -> client frames carry a "type" field (status, transcript, insight,
// pong) and a string "data" payload.
package protocol
