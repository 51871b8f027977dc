package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/models"
	"github.com/jmvaldez/inventario-be/internal/models/dto"
	"github.com/jmvaldez/inventario-be/internal/seed"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// UsersHandler serves the ownership grid: the role-by-username matrix that
// drives row visibility and credential seeding.
type UsersHandler struct {
	store        storage.Store
	seedPassword string
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(store storage.Store, seedPassword string) *UsersHandler {
	return &UsersHandler{store: store, seedPassword: seedPassword}
}

// HandleGet returns the persisted grid. A store with no grid yet degrades to
// an empty one rather than an error, so the client's validation simply sees
// no validation data.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	grid, err := h.store.GetUserGrid(r.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("get user grid: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	if grid.Roles == nil {
		grid.Roles = []string{}
	}
	if grid.Users == nil {
		grid.Users = [][]string{}
	}
	respond.JSON(w, http.StatusOK, grid)
}

// HandleSave validates and persists the grid, then reseeds credentials from
// it in-process. Admin only (enforced by middleware).
func (h *UsersHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var grid models.UserGrid
	if err := json.NewDecoder(r.Body).Decode(&grid); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(grid.Roles) == 0 {
		respond.Error(w, http.StatusBadRequest, "at least one role is required")
		return
	}
	if dup := firstDuplicate(grid); dup != "" {
		respond.Error(w, http.StatusBadRequest, "duplicate username: "+dup)
		return
	}

	if err := h.store.SaveUserGrid(r.Context(), grid); err != nil {
		log.Printf("save user grid: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save users")
		return
	}
	if err := seed.Apply(r.Context(), h.store, grid, h.seedPassword); err != nil {
		log.Printf("reseed users: %v", err)
		respond.Error(w, http.StatusInternalServerError, "grid saved but reseeding users failed")
		return
	}
	respond.JSON(w, http.StatusOK, dto.SaveGridResponse{Success: true})
}

// firstDuplicate returns the first username appearing in more than one
// non-blank cell, or "" when all are unique. Usernames must be unique across
// the whole grid because each maps to a single credential row.
func firstDuplicate(grid models.UserGrid) string {
	seen := map[string]bool{}
	for _, row := range grid.Users {
		for _, cell := range row {
			name := strings.TrimSpace(cell)
			if name == "" {
				continue
			}
			if seen[name] {
				return name
			}
			seen[name] = true
		}
	}
	return ""
}
