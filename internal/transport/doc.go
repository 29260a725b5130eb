// Package transport implements the WebSocket connection to the co-pilot
// backend.
//
// A Client wraps exactly one connection. All incoming frames and the final
// close are delivered as typed events on a single channel; the close event
// carries an explicit cause so consumers never have to infer from shared
// state whether a closure was self-initiated.
package transport
