package manager

import (
	"sync"

	"modelhost/internal/events"
)

// MemoryPublisher stores notifications in memory. Unbounded, so meant for
// tests and short-lived tools only.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []events.Notification
	notify chan struct{}
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{notify: make(chan struct{}, 1)}
}

func (p *MemoryPublisher) Publish(n events.Notification) {
	p.mu.Lock()
	p.events = append(p.events, n)
	p.mu.Unlock()
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []events.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Notification, len(p.events))
	copy(out, p.events)
	return out
}

// Changed is signalled (coalesced) after each Publish.
func (p *MemoryPublisher) Changed() <-chan struct{} { return p.notify }
