package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/feed"
	"github.com/bartolomema-prog/listasbebe/internal/metrics"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/status"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type ItemHandler struct {
	itemStore    *store.ItemStore
	listStore    *store.ListStore
	productStore *store.ProductStore
	broker       *feed.Broker
	logger       *slog.Logger
}

func NewItemHandler(is *store.ItemStore, ls *store.ListStore, ps *store.ProductStore, broker *feed.Broker, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemStore: is, listStore: ls, productStore: ps, broker: broker, logger: logger}
}

type itemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedListParam(w, r)
	if !ok {
		return
	}

	items, err := h.itemStore.ListItemsByList(list.ID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.ListItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedListParam(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	item, err := h.itemStore.CreateItem(list.ID, req.Name, req.Price, req.Brand, req.Model)
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	// Feed the owner's suggestion catalog as a side effect of adding items.
	price := req.Price
	if _, err := h.productStore.Save(list.OwnerID, req.Name, &price, req.Brand, req.Model); err != nil {
		h.logger.Warn("save product suggestion", "error", err)
	}

	metrics.ItemsCreatedTotal.Inc()
	h.broker.Publish(feed.Inserted(item))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	updated, err := h.itemStore.UpdateItem(item.ID, req.Name, req.Price, req.Brand, req.Model)
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}
	if err := h.itemStore.DeleteItem(item.ID); err != nil {
		h.logger.Error("delete item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.broker.Publish(feed.Deleted(item.ListID, item.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type purchaseRequest struct {
	IsPurchased    bool     `json:"is_purchased"`
	PurchaserName  string   `json:"purchaser_name"`
	PurchaserPhone string   `json:"purchaser_phone"`
	PickedUp       bool     `json:"picked_up"`
	Paid           bool     `json:"paid"`
	AmountPaid     *float64 `json:"amount_paid"`
}

func (h *ItemHandler) SetPurchased(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
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
		h.logger.Error("set purchased", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	if req.IsPurchased {
		metrics.ItemsPurchasedTotal.Inc()
	}
	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated)
}

type reserveRequest struct {
	IsReserved     bool   `json:"is_reserved"`
	PurchaserName  string `json:"purchaser_name"`
	PurchaserPhone string `json:"purchaser_phone"`
	PickedUp       bool   `json:"picked_up"`
}

func (h *ItemHandler) SetReserved(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
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
		h.logger.Error("set reserved", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	if req.IsReserved {
		metrics.ItemsReservedTotal.Inc()
	}
	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) CycleColor(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	updated, err := h.itemStore.CycleColor(item.ID)
	if err != nil {
		h.logger.Error("cycle color", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broker.Publish(feed.Updated(updated))
	writeJSON(w, http.StatusOK, updated)
}

type bulkStatusRequest struct {
	IDs []int64 `json:"ids"`
	purchaseRequest
}

// BulkSetPurchased applies one purchase state to many items of a list in a
// single statement, so concurrent viewers never observe a half-applied batch.
func (h *ItemHandler) BulkSetPurchased(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedListParam(w, r)
	if !ok {
		return
	}

	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
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
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.itemStore.BulkApplyChange(list.ID, req.IDs, ch)
	if err != nil {
		h.logger.Error("bulk set purchased", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update items")
		return
	}
	metrics.ItemsBulkUpdatedTotal.Add(float64(count))

	for _, id := range req.IDs {
		item, err := h.itemStore.GetItemByID(id)
		if err != nil || item == nil || item.ListID != list.ID {
			continue
		}
		h.broker.Publish(feed.Updated(item))
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// ownedListParam resolves the {id} path parameter as a list and enforces
// ownership.
func (h *ItemHandler) ownedListParam(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	list, err := h.listStore.GetByID(id)
	if err != nil {
		h.logger.Error("get list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return nil, false
	}
	if list == nil || list.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	return list, true
}

// ownedItem resolves the {id} path parameter as an item and enforces
// ownership through its list.
func (h *ItemHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.ListItem, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	item, err := h.itemStore.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return nil, false
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	list, err := h.listStore.GetByID(item.ListID)
	if err != nil {
		h.logger.Error("get list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return nil, false
	}
	if list == nil || list.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	return item, true
}
