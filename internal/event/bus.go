package event

import (
	"sync"
)

// Subscriber receives published events. OnEvent runs on the publisher's
// goroutine and must not block.
type Subscriber interface {
	OnEvent(e Event)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(e Event)

func (f SubscriberFunc) OnEvent(e Event) { f(e) }

// Publisher is the only surface the engine needs.
type Publisher interface {
	Publish(e Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// Bus fans events out to subscribers in subscription order. It is safe for
// concurrent use; publication is fire-and-forget.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id  int
	sub Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers s and returns a function that removes it again.
func (b *Bus) Subscribe(s Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, sub: s})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
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

// Publish delivers e to every current subscriber. Subscribers added or
// removed during delivery take effect from the next event.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	for i, s := range b.subs {
		subs[i] = s.sub
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Recorder keeps every event it sees. Useful in tests and for summaries.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Publish lets a Recorder stand in for a Bus.
func (r *Recorder) Publish(e Event) { r.OnEvent(e) }

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns recorded events of type t in publication order.
func (r *Recorder) OfType(t Type) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Filter returns the events in es that have concrete type T.
func Filter[T Event](es []Event) []T {
	var out []T
	for _, e := range es {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
