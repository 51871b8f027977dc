package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jmvaldez/inventario-be/internal/access"
	"github.com/jmvaldez/inventario-be/internal/auth"
	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/models/dto"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// DataHandler serves the column+row listing and row mutations.
type DataHandler struct {
	store storage.InventoryStore
}

// NewDataHandler constructs the handler.
func NewDataHandler(store storage.InventoryStore) *DataHandler {
	return &DataHandler{store: store}
}

// Handle dispatches GET (listing) and POST (mutation) on /api/data.
func (h *DataHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.mutate(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DataHandler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	cols, err := h.store.ListColumns(r.Context())
	if err != nil {
		log.Printf("list columns: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load columns")
		return
	}
	rows, err := h.store.ListRows(r.Context())
	if err != nil {
		log.Printf("list rows: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	rows = access.Filter(principal.Role, principal.Username, rows)
	respond.JSON(w, http.StatusOK, dto.DataResponse{Columns: cols, Inventory: rows})
}

// mutate applies one ADD/UPDATE/DELETE to a row. Updates are a full document
// replace; concurrent updates to the same row are last-writer-wins, which is
// acceptable for the handful of human operators this serves.
func (h *DataHandler) mutate(w http.ResponseWriter, r *http.Request) {
	var req dto.RowMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	switch req.Type {
	case dto.MutationAdd:
		row, err := h.store.AddRow(r.Context(), req.Row.Fields)
		if err != nil {
			log.Printf("add row: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to add row")
			return
		}
		respond.JSON(w, http.StatusOK, dto.RowMutationResponse{Success: true, Row: &row})

	case dto.MutationUpdate:
		if req.Row.ID == 0 {
			respond.Error(w, http.StatusBadRequest, "row _id is required")
			return
		}
		row, err := h.store.UpdateRow(r.Context(), req.Row.ID, req.Row.Fields)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "row not found")
				return
			}
			log.Printf("update row %d: %v", req.Row.ID, err)
			respond.Error(w, http.StatusInternalServerError, "failed to update row")
			return
		}
		respond.JSON(w, http.StatusOK, dto.RowMutationResponse{Success: true, Row: &row})

	case dto.MutationDelete:
		if req.Row.ID == 0 {
			respond.Error(w, http.StatusBadRequest, "row _id is required")
			return
		}
		if err := h.store.DeleteRow(r.Context(), req.Row.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "row not found")
				return
			}
			log.Printf("delete row %d: %v", req.Row.ID, err)
			respond.Error(w, http.StatusInternalServerError, "failed to delete row")
			return
		}
		respond.JSON(w, http.StatusOK, dto.RowMutationResponse{Success: true})

	default:
		respond.Error(w, http.StatusBadRequest, "unknown mutation type")
	}
}
