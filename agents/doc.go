// Package agents bundles ready-made entry functions and a small registry so
// hosts (CLI, HTTP server) can select an agent by name. Entry functions built
// here follow the same shape callers write themselves: register handlers on
// the room, then connect.
package agents
