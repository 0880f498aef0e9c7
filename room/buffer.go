package room

import (
	"sync"
	"time"
)

// Entry is a single captured outbound message.
type Entry struct {
	Data       []byte    // Raw payload bytes
	Topic      string    // Optional topic label
	Reliable   bool      // Reliability flag requested by the publisher
	CapturedAt time.Time // Capture timestamp
}

// Buffer is the ordered, append-only sink for outbound messages published
// during a run. Appends are mutex-guarded so concurrent publishers (a
// synchronous handler body and a background task) never interleave partially.
// The buffer is drained exactly once per run and not reused across runs.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	drained bool
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Append captures an entry. Appends arriving after Drain (stragglers from a
// cancelled run) are dropped.
func (b *Buffer) Append(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return
	}
	b.entries = append(b.entries, e)
}

// Len returns the number of captured entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Drain returns all captured entries in capture order and marks the buffer
// drained. Subsequent calls return nil.
func (b *Buffer) Drain() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return nil
	}
	b.drained = true
	entries := b.entries
	b.entries = nil
	return entries
}
