package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

// ItemSource is the slice of the item store a viewing session needs.
type ItemSource interface {
	ListItemsByList(listID int64) ([]model.ListItem, error)
	DeleteItem(id int64) error
}

// Session keeps one viewer's in-memory copy of a list consistent with the
// authoritative store while the list is open. It fetches a snapshot,
// subscribes to the list's change feed, and merges events until closed.
//
// Mutations are not applied locally until the matching feed event arrives,
// with one exception: Delete removes the item optimistically and restores
// the previous collection if the store call fails.
type Session struct {
	listID int64
	source ItemSource
	broker *Broker
	sub    *Subscription

	mu   sync.Mutex
	coll *Collection
}

// OpenSession fetches the current item snapshot and opens the standing
// subscription. The caller must Close the session when the view ends.
func OpenSession(source ItemSource, broker *Broker, listID int64) (*Session, error) {
	items, err := source.ListItemsByList(listID)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return &Session{
		listID: listID,
		source: source,
		broker: broker,
		sub:    broker.Subscribe(listID),
		coll:   NewCollection(items),
	}, nil
}

// Run merges incoming feed events until the context is cancelled or the
// subscription is closed.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case ev, ok := <-s.sub.C:
			if !ok {
				return
			}
			s.mu.Lock()
			s.coll.Apply(ev)
			s.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// Apply merges a single event. Exposed for callers that drain the
// subscription channel themselves.
func (s *Session) Apply(ev Event) {
	s.mu.Lock()
	s.coll.Apply(ev)
	s.mu.Unlock()
}

// Items returns the session's current view of the list.
func (s *Session) Items() []model.ListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Items()
}

// Delete removes an item optimistically and issues the store delete. On
// store failure the previous collection is restored and the error returned.
func (s *Session) Delete(itemID int64) error {
	s.mu.Lock()
	prev := s.coll.Items()
	s.coll.Apply(Deleted(s.listID, itemID))
	s.mu.Unlock()

	if err := s.source.DeleteItem(itemID); err != nil {
		s.mu.Lock()
		s.coll = NewCollection(prev)
		s.mu.Unlock()
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Close releases the standing subscription.
func (s *Session) Close() {
	s.broker.Unsubscribe(s.sub)
}
