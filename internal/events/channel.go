package events

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the Channel capacity used when none is configured.
const DefaultBuffer = 256

// Channel is a bounded, drop-oldest notification queue with one consumer.
// Publish never blocks.
type Channel struct {
	mu      sync.Mutex
	ch      chan Notification
	closed  bool
	dropped atomic.Uint64
	onDrop  func()
}

// NewChannel returns a channel holding at most size notifications.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &Channel{ch: make(chan Notification, size)}
}

// OnDrop installs a hook called for each dropped notification.
func (c *Channel) OnDrop(fn func()) {
	c.mu.Lock()
	c.onDrop = fn
	c.mu.Unlock()
}

// Publish enqueues n, evicting the oldest buffered notification when full.
func (c *Channel) Publish(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for {
		select {
		case c.ch <- n:
			return
		default:
		}
		select {
		case <-c.ch:
			c.dropped.Add(1)
			if c.onDrop != nil {
				c.onDrop()
			}
		default:
			// The consumer drained a slot in between; retry the send.
		}
	}
}

// C returns the receive side. It is closed by Close.
func (c *Channel) C() <-chan Notification { return c.ch }

// Dropped returns how many notifications were evicted.
func (c *Channel) Dropped() uint64 { return c.dropped.Load() }

// Close stops accepting notifications and closes C. Safe to call twice.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
