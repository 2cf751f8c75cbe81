package manager

import "modelhost/internal/events"

// EventPublisher receives worker notifications from the manager. Publish is
// called from reader goroutines and must not block; implementations with a
// slow consumer should buffer with a bound (see events.Channel).
type EventPublisher interface {
	Publish(events.Notification)
}

// noopPublisher is the default; it drops notifications.
type noopPublisher struct{}

func (noopPublisher) Publish(events.Notification) {}
