package websocket

import (
	"github.com/bartolomema-prog/listasbebe/internal/feed"
)

const entityItem = "list_item"

// BroadcastEvent fans an item feed event out to the event's list room,
// narrowing the payload for public clients.
func (h *Hub) BroadcastEvent(ev feed.Event) {
	action := string(ev.Type)

	var ownerPayload, publicPayload any
	if ev.Item != nil {
		ownerPayload = ev.Item
		publicPayload = ev.Item.Public()
	}

	h.BroadcastSplit(ev.ListID,
		NewMessage(entityItem, action, ev.ListID, ev.ItemID, ownerPayload),
		NewMessage(entityItem, action, ev.ListID, ev.ItemID, publicPayload),
	)
}
