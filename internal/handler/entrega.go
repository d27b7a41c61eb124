package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type EntregaHandler struct {
	entregaStore *store.EntregaStore
	logger       *slog.Logger
}

func NewEntregaHandler(es *store.EntregaStore, logger *slog.Logger) *EntregaHandler {
	return &EntregaHandler{entregaStore: es, logger: logger}
}

type entregaRequest struct {
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	Price       float64 `json:"price"`
	IsFinished  bool    `json:"is_finished"`
}

func (r entregaRequest) toModel() model.EntregaItem {
	return model.EntregaItem{
		ProductName: r.ProductName,
		Brand:       r.Brand,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Price:       r.Price,
		IsFinished:  r.IsFinished,
	}
}

func (h *EntregaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entregaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "product_name is required")
		return
	}

	item, err := h.entregaStore.CreateItem(auth.UserID(r.Context()), req.toModel())
	if err != nil {
		h.logger.Error("create entrega", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create entrega")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *EntregaHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.entregaStore.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list entregas", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list entregas")
		return
	}
	if items == nil {
		items = []model.EntregaItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EntregaHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req entregaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "product_name is required")
		return
	}

	updated, err := h.entregaStore.UpdateItem(item.ID, req.toModel())
	if err != nil {
		h.logger.Error("update entrega", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update entrega")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EntregaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.entregaStore.DeleteItem(item.ID); err != nil {
		h.logger.Error("delete entrega", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete entrega")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

// AddPayment records a deposit; the response carries the recomputed total.
func (h *EntregaHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	updated, err := h.entregaStore.AddPayment(item.ID, req.Amount)
	if err != nil {
		h.logger.Error("add payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add payment")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePayment removes a deposit; the response carries the recomputed total.
func (h *EntregaHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}

	paymentID, err := strconv.ParseInt(r.PathValue("payment_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment_id")
		return
	}

	updated, err := h.entregaStore.DeletePayment(paymentID, item.ID)
	if err != nil {
		h.logger.Error("delete payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete payment")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EntregaHandler) owned(w http.ResponseWriter, r *http.Request) (*model.EntregaItem, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	item, err := h.entregaStore.GetItemByID(id)
	if err != nil {
		h.logger.Error("get entrega", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load entrega")
		return nil, false
	}
	if item == nil || item.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "entrega not found")
		return nil, false
	}
	return item, true
}
