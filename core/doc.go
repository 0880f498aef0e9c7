// Package core provides the foundational domain types and interfaces used by
// TextMesh. It defines the core abstractions for:
//
//   - Conversations (ordered turn history plus caller-defined metadata)
//   - Jobs (Request in, Result out: one request, one attempt, one result)
//   - Pluggable stores for conversation state carried between turns
//
// The package intentionally keeps implementation concerns (persistence, the
// simulated room graph, engine orchestration) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
