package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type EncargoHandler struct {
	encargoStore *store.EncargoStore
	logger       *slog.Logger
}

func NewEncargoHandler(es *store.EncargoStore, logger *slog.Logger) *EncargoHandler {
	return &EncargoHandler{encargoStore: es, logger: logger}
}

type encargoRequest struct {
	ProductName  string   `json:"product_name"`
	Brand        string   `json:"brand"`
	ClientName   string   `json:"client_name"`
	ClientPhone  string   `json:"client_phone"`
	Price        *float64 `json:"price"`
	Deposit      float64  `json:"deposit"`
	Observations string   `json:"observations"`
	IsOrdered    bool     `json:"is_ordered"`
	IsPickedUp   bool     `json:"is_picked_up"`
}

func (r encargoRequest) toModel() model.Encargo {
	return model.Encargo{
		ProductName:  r.ProductName,
		Brand:        r.Brand,
		ClientName:   r.ClientName,
		ClientPhone:  r.ClientPhone,
		Price:        r.Price,
		Deposit:      r.Deposit,
		Observations: r.Observations,
		IsOrdered:    r.IsOrdered,
		IsPickedUp:   r.IsPickedUp,
	}
}

func (h *EncargoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req encargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "product_name is required")
		return
	}

	encargo, err := h.encargoStore.Create(auth.UserID(r.Context()), req.toModel())
	if err != nil {
		h.logger.Error("create encargo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create encargo")
		return
	}
	writeJSON(w, http.StatusCreated, encargo)
}

func (h *EncargoHandler) List(w http.ResponseWriter, r *http.Request) {
	encargos, err := h.encargoStore.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list encargos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list encargos")
		return
	}
	if encargos == nil {
		encargos = []model.Encargo{}
	}
	writeJSON(w, http.StatusOK, encargos)
}

func (h *EncargoHandler) Update(w http.ResponseWriter, r *http.Request) {
	encargo, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req encargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "product_name is required")
		return
	}

	updated, err := h.encargoStore.Update(encargo.ID, req.toModel())
	if err != nil {
		h.logger.Error("update encargo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update encargo")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EncargoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	encargo, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.encargoStore.Delete(encargo.ID); err != nil {
		h.logger.Error("delete encargo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete encargo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EncargoHandler) owned(w http.ResponseWriter, r *http.Request) (*model.Encargo, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	encargo, err := h.encargoStore.GetByID(id)
	if err != nil {
		h.logger.Error("get encargo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load encargo")
		return nil, false
	}
	if encargo == nil || encargo.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "encargo not found")
		return nil, false
	}
	return encargo, true
}
