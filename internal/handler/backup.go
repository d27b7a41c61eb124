package handler

import (
	"log/slog"
	"net/http"

	"github.com/bartolomema-prog/listasbebe/internal/backup"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type BackupHandler struct {
	manager     *backup.Manager
	backupStore *store.BackupStore
	logger      *slog.Logger
}

func NewBackupHandler(m *backup.Manager, bs *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, backupStore: bs, logger: logger}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.backupStore.ListRecent(20)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if records == nil {
		records = []store.BackupRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// RunNow triggers an immediate snapshot upload.
func (h *BackupHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int64{"backup_id": id})
}
