package room

import (
	"errors"
	"sync"
)

// ErrNotPublisher is returned when PublishData is called on a participant
// without a publish path (the remote participant is identity-only).
var ErrNotPublisher = errors.New("participant has no publish path")

// PublishOptions configure a single PublishData call.
type PublishOptions struct {
	// Topic labels the outbound message. Defaults to the room's topic.
	Topic string
	// Reliable requests reliable delivery. Defaults to true.
	Reliable bool
}

// publishFunc is the capture hook installed by the room on its local participant.
type publishFunc func(data []byte, opts PublishOptions) error

// Participant is a minimal stand-in for one of the two communicating
// parties. The local participant's publish path is wired to the room's
// output buffer; the remote participant carries identity fields only.
type Participant struct {
	Identity string
	Name     string
	SID      string
	Metadata string

	mu         sync.RWMutex
	attributes map[string]string
	publish    publishFunc
}

func newParticipant(identity, name, sid string) *Participant {
	return &Participant{Identity: identity, Name: name, SID: sid, attributes: map[string]string{}}
}

// PublishData publishes payload bytes to the counterpart. It is safe to call
// from both synchronous and asynchronous handler contexts: the capture is an
// immediately-applied synchronous append, so the write is always observed
// before the engine finalizes the result.
func (p *Participant) PublishData(data []byte, optFns ...func(o *PublishOptions)) error {
	p.mu.RLock()
	publish := p.publish
	p.mu.RUnlock()
	if publish == nil {
		return ErrNotPublisher
	}

	opts := PublishOptions{Reliable: true}
	for _, fn := range optFns {
		fn(&opts)
	}
	return publish(data, opts)
}

// SetAttribute sets a participant attribute.
func (p *Participant) SetAttribute(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attributes[key] = value
}

// Attribute returns the value and existence flag for an attribute key.
func (p *Participant) Attribute(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.attributes[key]
	return v, ok
}

func (p *Participant) setPublish(fn publishFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publish = fn
}
