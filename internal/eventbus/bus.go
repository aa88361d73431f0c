// Package eventbus is an in-process fan-out bus for domain events.
package eventbus

import (
	"sync"

	"github.com/kilianp07/skyops/core/events"
)

// EventBus publishes domain events to subscribers.
type EventBus interface {
	events.Publisher
	Subscribe(names ...string) <-chan events.Event
	Unsubscribe(<-chan events.Event)
	Close()
}

type subscriber struct {
	ch    chan events.Event
	names map[string]struct{}
}

func (s subscriber) wants(e events.Event) bool {
	if len(s.names) == 0 {
		return true
	}
	_, ok := s.names[e.EventName()]
	return ok
}

// Bus is the default EventBus using buffered fan-out channels.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	buffer int
	closed bool
}

// DefaultBuffer is the per-subscriber channel capacity used by New.
const DefaultBuffer = 32

// New creates a Bus.
func New() *Bus { return NewWithBuffer(DefaultBuffer) }

// NewWithBuffer creates a Bus whose subscriber channels hold n events.
func NewWithBuffer(n int) *Bus {
	if n < 0 {
		n = 0
	}
	return &Bus{buffer: n}
}

// Publish delivers e to every interested subscriber. Delivery is
// non-blocking; a full subscriber misses the event.
func (b *Bus) Publish(e events.Event) {
	if e == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		if !s.wants(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber. With names given, only events with a
// matching EventName are delivered.
func (b *Bus) Subscribe(names ...string) <-chan events.Event {
	s := subscriber{ch: make(chan events.Event, b.buffer)}
	if len(names) > 0 {
		s.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.names[n] = struct{}{}
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
	} else {
		b.subs = append(b.subs, s)
	}
	return s.ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// Close closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
}
