package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jmvaldez/inventario-be/internal/access"
	"github.com/jmvaldez/inventario-be/internal/auth"
	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/legacycsv"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// BackupHandler streams the inventory as a legacy-format CSV attachment.
// Non-admin callers get only the rows the access filter grants them, the
// same predicate the live listing uses.
type BackupHandler struct {
	store storage.InventoryStore
	now   func() time.Time
}

// NewBackupHandler constructs the handler. now is injectable for tests.
func NewBackupHandler(store storage.InventoryStore, now func() time.Time) *BackupHandler {
	if now == nil {
		now = time.Now
	}
	return &BackupHandler{store: store, now: now}
}

// Handle writes the CSV with a filename carrying the caller and a local
// YYYYMMDD_HHMMSS timestamp, matching the legacy backup naming.
func (h *BackupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	cols, err := h.store.ListColumns(r.Context())
	if err != nil {
		log.Printf("backup: list columns: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load columns")
		return
	}
	rows, err := h.store.ListRows(r.Context())
	if err != nil {
		log.Printf("backup: list rows: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	rows = access.Filter(principal.Role, principal.Username, rows)

	data, err := legacycsv.EncodeRows(cols, rows)
	if err != nil {
		log.Printf("backup: encode: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to encode backup")
		return
	}

	filename := fmt.Sprintf("%s_Inventario_%s.csv",
		principal.Username, h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=ISO-8859-1")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("backup: write: %v", err)
	}
}
