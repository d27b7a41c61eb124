package handler

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/store"
	"github.com/bartolomema-prog/listasbebe/internal/websocket"
)

// WSHandler upgrades list viewers to WebSocket clients in the right room
// with the right projection role.
type WSHandler struct {
	hub       *websocket.Hub
	listStore *store.ListStore
	logger    *slog.Logger
}

func NewWSHandler(hub *websocket.Hub, ls *store.ListStore, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, listStore: ls, logger: logger}
}

// OwnerList serves GET /ws/lists/{id} for the authenticated owner.
func (h *WSHandler) OwnerList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	list, err := h.listStore.GetByID(id)
	if err != nil {
		h.logger.Error("get list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}
	if list == nil || list.OwnerID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.serve(w, r, list.ID, websocket.RoleOwner)
}

// PublicList serves GET /ws/public/{code} for share-code viewers. Archived
// lists refuse the connection the same way the REST path does.
func (h *WSHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	list, err := h.listStore.GetByCode(code)
	if err != nil {
		h.logger.Error("get list by code", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	if list.IsArchived {
		writeError(w, http.StatusGone, "list unavailable")
		return
	}

	h.serve(w, r, list.ID, websocket.RolePublic)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, listID int64, role websocket.Role) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // The share-code model already gates access
	})
	if err != nil {
		h.logger.Warn("websocket accept", "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, listID, role)
	client.Run(r.Context())
}
