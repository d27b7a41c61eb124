package feed

import "github.com/bartolomema-prog/listasbebe/internal/model"

// EventType identifies a change-feed mutation kind.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one committed mutation on a list's items. Insert and update
// events carry the full new record; delete events carry only the identity.
type Event struct {
	Type   EventType       `json:"type"`
	ListID int64           `json:"list_id"`
	ItemID int64           `json:"item_id"`
	Item   *model.ListItem `json:"item,omitempty"`
}

// Inserted builds an insert event for a newly created item.
func Inserted(item *model.ListItem) Event {
	return Event{Type: EventInsert, ListID: item.ListID, ItemID: item.ID, Item: item}
}

// Updated builds an update event carrying the full authoritative record.
func Updated(item *model.ListItem) Event {
	return Event{Type: EventUpdate, ListID: item.ListID, ItemID: item.ID, Item: item}
}

// Deleted builds a delete event for a removed item.
func Deleted(listID, itemID int64) Event {
	return Event{Type: EventDelete, ListID: listID, ItemID: itemID}
}
