package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/notify"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type PushHandler struct {
	pushStore *store.PushStore
	notifier  *notify.Service
	logger    *slog.Logger
}

func NewPushHandler(ps *store.PushStore, notifier *notify.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{pushStore: ps, notifier: notifier, logger: logger}
}

// VAPIDKey hands the public key to the client for subscription.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	key := h.notifier.VAPIDPublicKey()
	if key == "" {
		writeError(w, http.StatusServiceUnavailable, "push notifications not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": key})
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	P256dhKey  string `json:"p256dh_key"`
	AuthKey    string `json:"auth_key"`
	DeviceName string `json:"device_name"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" || req.P256dhKey == "" || req.AuthKey == "" {
		writeError(w, http.StatusBadRequest, "endpoint, p256dh_key and auth_key are required")
		return
	}

	sub, err := h.pushStore.Create(auth.UserID(r.Context()), req.Endpoint, req.P256dhKey, req.AuthKey, req.DeviceName)
	if err != nil {
		h.logger.Error("create push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *PushHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.pushStore.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list push subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sub, err := h.pushStore.GetByID(id)
	if err != nil {
		h.logger.Error("get push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	if sub == nil || sub.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}

	if err := h.pushStore.Delete(id); err != nil {
		h.logger.Error("delete push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}
