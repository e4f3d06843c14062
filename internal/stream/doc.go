// Package stream implements the Connection Manager component.
//
// The Connection Manager:
//   - Owns exactly one persistent WebSocket connection to the push endpoint
//   - Reconnects after a fixed delay, indefinitely, with no backoff growth
//   - Replays the full subscription set after every successful reconnect
//   - Parses incoming frames and dispatches them to one registered handler
//
// Transport failures surface only as a transition to StateClosed; from the
// caller's point of view connection flakiness is fully self-healing.
package stream
