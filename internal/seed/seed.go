// Package seed provisions credential rows from the ownership grid. The
// legacy system shelled out to a separate script for this; here it is a
// direct in-process call so a grid save and its reseed share one fate.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmvaldez/inventario-be/internal/legacycsv"
	"github.com/jmvaldez/inventario-be/internal/models"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// Apply upserts one user per non-blank grid cell (username under the role of
// its column) plus the distinguished admin user. New users get the bcrypt
// hash of defaultPassword; existing users keep their password and only have
// their role updated.
func Apply(ctx context.Context, store storage.UserStore, grid models.UserGrid, defaultPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	entries := grid.Usernames()
	entries = append(entries, models.GridEntry{Username: "admin", Role: models.AdminRole})

	for _, e := range entries {
		user := models.User{
			Username:     e.Username,
			Role:         e.Role,
			PasswordHash: string(hash),
		}
		if err := store.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", e.Username, err)
		}
	}
	log.Printf("seeded %d users from ownership grid", len(entries))
	return nil
}

// FromFile loads the grid from a usuarios.csv when the store has none yet,
// persists it, and applies it. A store that already holds a grid is left
// untouched so edits made through the API survive restarts.
func FromFile(ctx context.Context, store storage.Store, path, defaultPassword string) error {
	_, err := store.GetUserGrid(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed grid: %w", err)
	}
	grid, err := legacycsv.DecodeUserGrid(data)
	if err != nil {
		return fmt.Errorf("parse seed grid: %w", err)
	}
	if err := store.SaveUserGrid(ctx, grid); err != nil {
		return fmt.Errorf("save seed grid: %w", err)
	}
	return Apply(ctx, store, grid, defaultPassword)
}
