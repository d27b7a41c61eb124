package feed

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const subscriptionBuffer = 64

// Sink receives every published event regardless of list. The server uses
// it to bridge events onto the WebSocket hub.
type Sink func(Event)

// Subscription is one standing change-feed subscription scoped to a single
// list. It must be released with Unsubscribe when the viewing session ends.
type Subscription struct {
	ID     string
	ListID int64
	C      <-chan Event
	ch     chan Event
}

// Broker fans committed item mutations out to per-list subscribers.
// Publish is called after the store write succeeds, in commit order.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int64]map[string]*Subscription
	sink   Sink
	logger *slog.Logger
}

// NewBroker creates a broker. sink may be nil.
func NewBroker(sink Sink, logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[int64]map[string]*Subscription),
		sink:   sink,
		logger: logger,
	}
}

// Subscribe opens a standing subscription for one list's events.
func (b *Broker) Subscribe(listID int64) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		ListID: listID,
		ch:     make(chan Event, subscriptionBuffer),
	}
	sub.C = sub.ch

	b.mu.Lock()
	if b.subs[listID] == nil {
		b.subs[listID] = make(map[string]*Subscription)
	}
	b.subs[listID][sub.ID] = sub
	b.mu.Unlock()
	return sub
}

// Unsubscribe releases a subscription and closes its channel.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	if m, ok := b.subs[sub.ListID]; ok {
		if _, ok := m[sub.ID]; ok {
			delete(m, sub.ID)
			close(sub.ch)
		}
		if len(m) == 0 {
			delete(b.subs, sub.ListID)
		}
	}
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber of its list and to the
// sink. Events are delivered in the order they are published.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	for _, sub := range b.subs[ev.ListID] {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full — drop rather than block the writer
			b.logger.Warn("feed subscriber lagging, event dropped",
				"subscription", sub.ID, "list_id", ev.ListID)
		}
	}
	b.mu.RUnlock()

	if b.sink != nil {
		b.sink(ev)
	}
}

// SubscriberCount reports the number of open subscriptions for a list.
func (b *Broker) SubscriberCount(listID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[listID])
}
