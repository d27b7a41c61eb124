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

type ProductHandler struct {
	productStore *store.ProductStore
	logger       *slog.Logger
}

func NewProductHandler(ps *store.ProductStore, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{productStore: ps, logger: logger}
}

type productRequest struct {
	Name         string   `json:"name"`
	DefaultPrice *float64 `json:"default_price"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productStore.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list products", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.SavedProduct{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Suggest answers add-item autocompletion from the owner's saved catalog.
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.productStore.Suggest(auth.UserID(r.Context()), query, limit)
	if err != nil {
		h.logger.Error("suggest products", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to suggest products")
		return
	}
	if products == nil {
		products = []model.SavedProduct{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	product, err := h.productStore.Save(auth.UserID(r.Context()), req.Name, req.DefaultPrice, req.Brand, req.Model)
	if err != nil {
		h.logger.Error("save product", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	product, err := h.productStore.GetByID(id)
	if err != nil {
		h.logger.Error("get product", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if product == nil || product.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.productStore.Delete(id); err != nil {
		h.logger.Error("delete product", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
