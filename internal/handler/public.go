package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bartolomema-prog/listasbebe/internal/feed"
	"github.com/bartolomema-prog/listasbebe/internal/metrics"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/notify"
	"github.com/bartolomema-prog/listasbebe/internal/status"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

// PublicHandler serves the share-code access path. Every response on this
// path uses the public projections, so purchaser identity and payment
// amounts never leave the owner's side.
type PublicHandler struct {
	listStore *store.ListStore
	itemStore *store.ItemStore
	broker    *feed.Broker
	notifier  *notify.Service
	logger    *slog.Logger
}

func NewPublicHandler(ls *store.ListStore, is *store.ItemStore, broker *feed.Broker, notifier *notify.Service, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{listStore: ls, itemStore: is, broker: broker, notifier: notifier, logger: logger}
}

func (h *PublicHandler) GetList(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w, r)
	if !ok {
		return
	}
	metrics.PublicListViewsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, list.Public())
}

func (h *PublicHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w, r)
	if !ok {
		return
	}

	items, err := h.itemStore.PublicItemsByCode(list.ShareCode)
	if err != nil {
		h.logger.Error("public items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.PublicItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// SetPurchased lets a guest claim or release an item as purchased.
func (h *PublicHandler) SetPurchased(w http.ResponseWriter, r *http.Request) {
	list, item, ok := h.activeItem(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var info *status.PurchaserInfo
	if req.IsPurchased {
		info = &status.PurchaserInfo{
			Name:       req.PurchaserName,
			Phone:      req.PurchaserPhone,
			PickedUp:   req.PickedUp,
			Paid:       req.Paid,
			AmountPaid: req.AmountPaid,
		}
	}

	ch, err := status.SetPurchased(req.IsPurchased, info)
	if errors.Is(err, status.ErrPurchaserRequired) {
		writeError(w, http.StatusBadRequest, "purchaser info is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.itemStore.ApplyChange(item.ID, ch)
	if err != nil {
		h.logger.Error("public set purchased", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	if req.IsPurchased {
		metrics.ItemsPurchasedTotal.Inc()
		h.notifier.NotifyClaim(list.OwnerID, updated, "Comprado")
	}
	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated.Public())
}

// SetReserved lets a guest reserve or release an item.
func (h *PublicHandler) SetReserved(w http.ResponseWriter, r *http.Request) {
	list, item, ok := h.activeItem(w, r)
	if !ok {
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var info *status.PurchaserInfo
	if req.IsReserved {
		info = &status.PurchaserInfo{
			Name:     req.PurchaserName,
			Phone:    req.PurchaserPhone,
			PickedUp: req.PickedUp,
		}
	}

	ch := status.SetReserved(req.IsReserved, info)
	updated, err := h.itemStore.ApplyChange(item.ID, ch)
	if err != nil {
		h.logger.Error("public set reserved", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	if req.IsReserved {
		metrics.ItemsReservedTotal.Inc()
		h.notifier.NotifyClaim(list.OwnerID, updated, "Reservado")
	}
	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated.Public())
}

// activeList resolves the {code} path parameter, refusing unknown codes and
// archived lists.
func (h *PublicHandler) activeList(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, bool) {
	code := r.PathValue("code")
	list, err := h.listStore.GetByCode(code)
	if err != nil {
		h.logger.Error("get list by code", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return nil, false
	}
	if list == nil {
		metrics.PublicListViewsTotal.WithLabelValues("not_found").Inc()
		writeError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	if list.IsArchived {
		metrics.PublicListViewsTotal.WithLabelValues("archived").Inc()
		writeError(w, http.StatusGone, "list unavailable")
		return nil, false
	}
	return list, true
}

// activeItem resolves {code} and {id}, requiring the item to belong to the
// code's list.
func (h *PublicHandler) activeItem(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, *model.ListItem, bool) {
	list, ok := h.activeList(w, r)
	if !ok {
		return nil, nil, false
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, nil, false
	}
	item, err := h.itemStore.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return nil, nil, false
	}
	if item == nil || item.ListID != list.ID {
		writeError(w, http.StatusNotFound, "item not found")
		return nil, nil, false
	}
	return list, item, true
}
