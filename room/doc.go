// Package room implements the simulated host context presented to entry
// functions. It provides just enough of a realtime session surface (room,
// participants, event registration and emission) that unmodified
// handler-registration code runs unchanged in a turn-based, text-only
// setting, while every outbound publish is captured into an ordered buffer.
//
// Each run owns an isolated Room graph; nothing is shared across runs. The
// inbound user message is delivered by a supervised timer task started by
// Connect: after a bounded grace delay (time for the entry function to finish
// registering handlers) the room emits a single data_received event and the
// scheduler's job is done. The timer respects the run context, so a timeout
// cancels it and never leaks past the run.
package room
