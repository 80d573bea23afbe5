// Package event provides synchronous publish/subscribe fan-out for
// application notifications. The history engine itself exposes only a
// single change callback; sessions re-broadcast it here so that any number
// of UI panes can react.
package event

import (
	"sync"
	"sync/atomic"
)

// Topics.
const (
	TopicHistoryChanged = "history.changed"
	TopicSessionOpened  = "session.opened"
	TopicSessionClosed  = "session.closed"
	TopicViewChanged    = "view.changed"
)

// HistoryChanged fires after any successful history-tree mutation.
type HistoryChanged struct {
	SessionID string
}

// SessionOpened fires when a waveform file has been opened.
type SessionOpened struct {
	SessionID string
	Path      string
}

// SessionClosed fires when a session is closed.
type SessionClosed struct {
	SessionID string
}

// ViewChanged fires when a session's view state changed outside of the
// history engine, e.g. a full reload.
type ViewChanged struct {
	SessionID string
}

// Handler receives published events. Handlers run synchronously in the
// publisher's goroutine, in subscription order.
type Handler func(event any)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a synchronous topic-based event bus. Panics in handlers are
// recovered and counted so one misbehaving subscriber cannot take down the
// publisher.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription

	published atomic.Uint64
	delivered atomic.Uint64
	panicked  atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function. Safe to call the returned function more than once.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every handler subscribed to the topic.
func (b *Bus) Publish(topic string, event any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	b.published.Add(1)
	for _, s := range subs {
		b.deliver(s.handler, event)
	}
}

func (b *Bus) deliver(h Handler, event any) {
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
		}
	}()
	h(event)
	b.delivered.Add(1)
}

// Stats holds bus counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Panicked  uint64
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Panicked:  b.panicked.Load(),
	}
}
