// Package session houses concrete implementations of core.StateStore. The
// interface itself lives in the core package so higher level packages (engine,
// server) depend only on the contract, never on concrete storage.
//
// Additional backends (Redis lives in the redis sub-package) can be added
// without changing any calling code. Only the wiring layer decides which
// implementation to instantiate.
package session
