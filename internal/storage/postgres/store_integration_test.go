package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmvaldez/inventario-be/internal/models"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// TestStoreIntegration exercises the store against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("storetest_%d", suffix)
	label := fmt.Sprintf("Columna_%d", suffix)

	user, err := store.CreateUser(ctx, models.User{
		Username: username, Role: "INSPECTOR", PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser(ctx, models.User{
		Username: username, Role: "INSPECTOR", PasswordHash: "hash",
	}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create err = %v, want ErrAlreadyExists", err)
	}
	if err := store.UpdatePassword(ctx, user.ID, "newhash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	found, err := store.FindByUsername(ctx, username)
	if err != nil || found.PasswordHash != "newhash" {
		t.Fatalf("find after password update: %+v, %v", found, err)
	}

	row, err := store.AddRow(ctx, map[string]string{"Orden": "1"})
	if err != nil {
		t.Fatalf("add row: %v", err)
	}

	col, err := store.AddColumn(ctx, models.Column{Label: label, Kind: "texto"})
	if err != nil {
		t.Fatalf("add column: %v", err)
	}
	if col.Sequence == 0 {
		t.Fatalf("column sequence not assigned: %+v", col)
	}

	rows, err := store.ListRows(ctx)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	var backfilled bool
	for _, r := range rows {
		if r.ID == row.ID {
			v, ok := r.Fields[label]
			backfilled = ok && v == ""
		}
	}
	if !backfilled {
		t.Fatalf("new column %q not backfilled on existing row", label)
	}

	if _, err := store.UpdateRow(ctx, row.ID, map[string]string{"Orden": "2"}); err != nil {
		t.Fatalf("update row: %v", err)
	}
	if err := store.DeleteColumn(ctx, label); err != nil {
		t.Fatalf("delete column: %v", err)
	}
	if err := store.DeleteRow(ctx, row.ID); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if err := store.DeleteRow(ctx, row.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}

	grid := models.UserGrid{Roles: []string{"INSPECTOR"}, Users: [][]string{{username}}}
	if err := store.SaveUserGrid(ctx, grid); err != nil {
		t.Fatalf("save grid: %v", err)
	}
	got, err := store.GetUserGrid(ctx)
	if err != nil || len(got.Roles) != 1 || got.Users[0][0] != username {
		t.Fatalf("get grid: %+v, %v", got, err)
	}
}
