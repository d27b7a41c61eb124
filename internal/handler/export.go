package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/auth"
	"github.com/bartolomema-prog/listasbebe/internal/export"
	"github.com/bartolomema-prog/listasbebe/internal/metrics"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type ExportHandler struct {
	listStore *store.ListStore
	itemStore *store.ItemStore
	logger    *slog.Logger
}

func NewExportHandler(ls *store.ListStore, is *store.ItemStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{listStore: ls, itemStore: is, logger: logger}
}

// CSV streams a full backup of the owner's lists and items as a download.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())

	lists, err := h.listStore.ListByOwner(ownerID)
	if err != nil {
		h.logger.Error("export lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}
	if len(lists) == 0 {
		writeError(w, http.StatusNotFound, "no lists to export")
		return
	}

	var items []model.ListItem
	for _, list := range lists {
		listItems, err := h.itemStore.ListItemsByList(list.ID)
		if err != nil {
			h.logger.Error("export items", "list_id", list.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to export")
			return
		}
		items = append(items, listItems...)
	}

	data, err := export.ItemsCSV(lists, items)
	if err != nil {
		h.logger.Error("build csv", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	metrics.CSVExportsTotal.Inc()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
