// Package engine orchestrates single runs of caller-supplied entry functions
// inside a simulated host context. For every request it builds an isolated
// room graph pre-loaded with restored conversation state, runs the entry
// function under a timeout, waits for the inbound message injection and all
// asynchronous handler work to settle, and drains the captured output and the
// evolved state into a well-formed result.
//
// A run is one attempt: the engine never retries, and it never lets a failure
// inside the entry function or its handlers escape to the caller. Every
// failure becomes a result with a non-success status. Runs share nothing, so
// Execute is safe to call concurrently.
package engine
