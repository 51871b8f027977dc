package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/legacycsv"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// 16 MiB covers the largest observed spreadsheet export with headroom.
const maxImportBytes = 16 << 20

// ImportHandler loads a pair of legacy CSV files into the store, replacing
// its contents. Admin only; this is the API-level counterpart of the old
// one-shot migration script.
type ImportHandler struct {
	store storage.InventoryStore
}

// NewImportHandler constructs the handler.
func NewImportHandler(store storage.InventoryStore) *ImportHandler {
	return &ImportHandler{store: store}
}

// Handle expects a multipart form with a "columns" part (columnas.csv) and
// an "inventory" part (Inventario.csv), both in the legacy encoding. Columns
// are imported first so the row set always lands against the new schema.
func (h *ImportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	colBytes, err := formFile(r, "columns")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "columns file is required")
		return
	}
	invBytes, err := formFile(r, "inventory")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "inventory file is required")
		return
	}

	cols, err := legacycsv.DecodeColumns(colBytes)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse columns file: "+err.Error())
		return
	}
	rows, err := legacycsv.DecodeRows(invBytes)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse inventory file: "+err.Error())
		return
	}

	if err := h.store.ReplaceColumns(r.Context(), cols); err != nil {
		log.Printf("import columns: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to import columns")
		return
	}
	if err := h.store.ReplaceRows(r.Context(), rows); err != nil {
		log.Printf("import rows: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to import inventory")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"columns": len(cols),
		"rows":    len(rows),
	})
}

func formFile(r *http.Request, name string) ([]byte, error) {
	file, _, err := r.FormFile(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxImportBytes))
}
