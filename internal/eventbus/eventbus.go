// Package eventbus is a small synchronous publish/subscribe hub used for
// notifications between the tab manager, router, views and minimap.
package eventbus

import (
	"sync"

	"github.com/atomicstack/disasm-shell/internal/logging/events"
)

// Topic names a class of events.
type Topic string

// Event is anything published on the bus.
type Event interface {
	Topic() Topic
}

type Handler func(Event)

type subscription struct {
	id      int
	topic   Topic
	all     bool
	handler Handler
}

// Bus delivers events to subscribers in subscription order on the
// publishing goroutine.
type Bus struct {
	mu     sync.Mutex
	subs   []subscription
	nextID int
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers h for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	return b.add(subscription{topic: topic, handler: h})
}

// SubscribeAll registers h for every topic.
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.add(subscription{all: true, handler: h})
}

func (b *Bus) add(s subscription) func() {
	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return func() { b.remove(s.id) }
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e. A nil bus discards events.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	b.mu.Lock()
	var targets []Handler
	for _, s := range b.subs {
		if s.all || s.topic == e.Topic() {
			targets = append(targets, s.handler)
		}
	}
	b.mu.Unlock()

	events.Bus.Publish(string(e.Topic()), len(targets))
	for _, h := range targets {
		h(e)
	}
}

// Recorder captures every published event; handy in tests and traces.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record attaches a new recorder to b.
func Record(b *Bus) *Recorder {
	r := &Recorder{}
	b.SubscribeAll(func(e Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics of the recorded events in order.
func (r *Recorder) Topics() []Topic {
	evs := r.Events()
	out := make([]Topic, len(evs))
	for i, e := range evs {
		out[i] = e.Topic()
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
