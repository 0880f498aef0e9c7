package core

import "github.com/google/uuid"

// NewID generates a unique identifier for jobs and runs.
func NewID() string { return uuid.NewString() }
