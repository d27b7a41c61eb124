package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/feed"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type ListHandler struct {
	listStore *store.ListStore
	itemStore *store.ItemStore
	broker    *feed.Broker
	logger    *slog.Logger
}

func NewListHandler(ls *store.ListStore, is *store.ItemStore, broker *feed.Broker, logger *slog.Logger) *ListHandler {
	return &ListHandler{listStore: ls, itemStore: is, broker: broker, logger: logger}
}

type listRequest struct {
	BabyName   string `json:"baby_name"`
	FatherName string `json:"father_name"`
	MotherName string `json:"mother_name"`
	Phone      string `json:"phone"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.BabyName = strings.TrimSpace(req.BabyName)
	if req.BabyName == "" {
		writeError(w, http.StatusBadRequest, "baby_name is required")
		return
	}

	list, err := h.listStore.Create(auth.UserID(r.Context()), req.BabyName, req.FatherName, req.MotherName, req.Phone)
	if err != nil {
		h.logger.Error("create list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listStore.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list lists")
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedList(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedList(w, r)
	if !ok {
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.BabyName = strings.TrimSpace(req.BabyName)
	if req.BabyName == "" {
		writeError(w, http.StatusBadRequest, "baby_name is required")
		return
	}

	updated, err := h.listStore.Update(list.ID, req.BabyName, req.FatherName, req.MotherName, req.Phone)
	if err != nil {
		h.logger.Error("update list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type archiveRequest struct {
	IsArchived bool `json:"is_archived"`
}

func (h *ListHandler) SetArchived(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedList(w, r)
	if !ok {
		return
	}

	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.listStore.SetArchived(list.ID, req.IsArchived)
	if err != nil {
		h.logger.Error("set archived", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update list")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedList(w, r)
	if !ok {
		return
	}

	// Snapshot the items before the cascade so connected viewers can be
	// told what disappeared.
	items, err := h.itemStore.ListItemsByList(list.ID)
	if err != nil {
		h.logger.Error("list items before delete", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}

	if err := h.listStore.Delete(list.ID); err != nil {
		h.logger.Error("delete list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}

	for _, item := range items {
		h.broker.Publish(feed.Deleted(list.ID, item.ID))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ListHandler) Totals(w http.ResponseWriter, r *http.Request) {
	list, ok := h.ownedList(w, r)
	if !ok {
		return
	}
	pending, purchased, err := h.itemStore.Totals(list.ID)
	if err != nil {
		h.logger.Error("list totals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"pending":   pending,
		"purchased": purchased,
		"total":     pending + purchased,
	})
}

// ownedList resolves the {id} path parameter and enforces ownership.
func (h *ListHandler) ownedList(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, bool) {
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
