package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/models/dto"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// ColumnsHandler serves column-definition mutations.
type ColumnsHandler struct {
	store storage.InventoryStore
}

// NewColumnsHandler constructs the handler.
func NewColumnsHandler(store storage.InventoryStore) *ColumnsHandler {
	return &ColumnsHandler{store: store}
}

// Handle applies one ADD/DELETE to the column set and returns the new set.
// ADD backfills the label as an empty field on every existing row so the
// grid stays rectangular for export.
func (h *ColumnsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ColumnMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Column.Label) == "" {
		respond.Error(w, http.StatusBadRequest, "column label is required")
		return
	}

	switch req.Type {
	case dto.MutationAdd:
		if _, err := h.store.AddColumn(r.Context(), req.Column); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				respond.Error(w, http.StatusConflict, "column label already exists")
				return
			}
			log.Printf("add column %q: %v", req.Column.Label, err)
			respond.Error(w, http.StatusInternalServerError, "failed to add column")
			return
		}

	case dto.MutationDelete:
		if err := h.store.DeleteColumn(r.Context(), req.Column.Label); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "column not found")
				return
			}
			log.Printf("delete column %q: %v", req.Column.Label, err)
			respond.Error(w, http.StatusInternalServerError, "failed to delete column")
			return
		}

	default:
		respond.Error(w, http.StatusBadRequest, "unknown mutation type")
		return
	}

	cols, err := h.store.ListColumns(r.Context())
	if err != nil {
		log.Printf("list columns: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load columns")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ColumnMutationResponse{Success: true, Columns: cols})
}
