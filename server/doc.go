// Package server exposes the execution engine over HTTP. It is a thin host
// around the engine: requests carry user input plus optional conversation
// state, responses carry the outcome plus updated state. When a state store
// is configured, callers may pass a session id instead of inline state and
// the server handles persistence between turns.
package server
