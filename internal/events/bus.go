package events

import (
	"sync/atomic"

	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher and fans notifications out to
// subscriber Channels.
type Bus struct {
	dispatcher *event.Dispatcher
	dropped    atomic.Uint64
	onDrop     func()
}

// NewBus creates a bus. onDrop (may be nil) is called whenever any
// subscriber's channel evicts a notification.
func NewBus(onDrop func()) *Bus {
	return &Bus{dispatcher: event.NewDispatcher(), onDrop: onDrop}
}

// Publish delivers n to all current subscribers. It does not block on slow
// subscribers.
func (b *Bus) Publish(n Notification) {
	event.Publish(b.dispatcher, n)
}

// Subscribe registers a new subscriber with a bounded channel of the given
// size. The returned cancel func unsubscribes and closes the channel.
func (b *Bus) Subscribe(size int) (*Channel, func()) {
	ch := NewChannel(size)
	ch.OnDrop(func() {
		b.dropped.Add(1)
		if b.onDrop != nil {
			b.onDrop()
		}
	})
	unsub := event.Subscribe(b.dispatcher, func(n Notification) {
		ch.Publish(n)
	})
	return ch, func() {
		unsub()
		ch.Close()
	}
}

// Dropped totals evictions across all subscribers since creation.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close shuts the dispatcher down.
func (b *Bus) Close() error { return b.dispatcher.Close() }
