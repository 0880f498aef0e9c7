package core

import "fmt"

// DecodeError reports a malformed persisted conversation document. Path
// points at the offending field (e.g. "turns[2].role"). Decoding never
// substitutes defaults for required fields; the caller is expected to reject
// the request before a run starts.
type DecodeError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("state decode: %s", e.Reason)
	}
	return fmt.Sprintf("state decode: %s: %s", e.Path, e.Reason)
}

// NewDecodeError constructs a DecodeError for the given field path.
func NewDecodeError(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
