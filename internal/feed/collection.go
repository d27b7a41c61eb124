package feed

import "github.com/bartolomema-prog/listasbebe/internal/model"

// Collection is a viewing session's in-memory item set, kept in insertion
// order. Merging always replaces whole records by identity, so applying the
// same event twice yields the same state (safe under at-least-once
// delivery).
type Collection struct {
	items []model.ListItem
}

// NewCollection seeds a collection from a snapshot fetched in creation
// order.
func NewCollection(items []model.ListItem) *Collection {
	c := &Collection{items: make([]model.ListItem, len(items))}
	copy(c.items, items)
	return c
}

// Apply merges one feed event into the collection.
func (c *Collection) Apply(ev Event) {
	switch ev.Type {
	case EventInsert:
		if ev.Item == nil {
			return
		}
		for _, it := range c.items {
			if it.ID == ev.Item.ID {
				return // already present
			}
		}
		c.items = append(c.items, *ev.Item)
	case EventUpdate:
		if ev.Item == nil {
			return
		}
		for i, it := range c.items {
			if it.ID == ev.Item.ID {
				c.items[i] = *ev.Item
				return
			}
		}
	case EventDelete:
		for i, it := range c.items {
			if it.ID == ev.ItemID {
				c.items = append(c.items[:i], c.items[i+1:]...)
				return
			}
		}
	}
}

// Items returns a copy of the current item set in order.
func (c *Collection) Items() []model.ListItem {
	out := make([]model.ListItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given identity, or nil.
func (c *Collection) Get(id int64) *model.ListItem {
	for i := range c.items {
		if c.items[i].ID == id {
			item := c.items[i]
			return &item
		}
	}
	return nil
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.items)
}
