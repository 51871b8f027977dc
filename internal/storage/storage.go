package storage

import (
	"context"
	"errors"

	"github.com/jmvaldez/inventario-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures credential persistence needed by the auth handlers and
// grid seeding.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// UpsertUser inserts the user or, when the username exists, updates
	// its role, leaving the stored password hash alone.
	UpsertUser(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// InventoryStore persists the column definitions and the schema-flexible rows.
type InventoryStore interface {
	ListColumns(ctx context.Context) ([]models.Column, error)
	// AddColumn appends the definition and backfills the new label as an
	// empty-string field on every existing row, keeping rows rectangular
	// for CSV export.
	AddColumn(ctx context.Context, col models.Column) (models.Column, error)
	// DeleteColumn removes the definition by label and strips the label
	// from every row. ErrNotFound for an unknown label.
	DeleteColumn(ctx context.Context, label string) error
	// ReplaceColumns swaps the whole definition set (CSV import).
	ReplaceColumns(ctx context.Context, cols []models.Column) error

	ListRows(ctx context.Context) ([]models.Row, error)
	AddRow(ctx context.Context, fields map[string]string) (models.Row, error)
	// UpdateRow replaces the whole document at id. ErrNotFound if missing.
	UpdateRow(ctx context.Context, id int64, fields map[string]string) (models.Row, error)
	// DeleteRow removes the document. ErrNotFound if missing.
	DeleteRow(ctx context.Context, id int64) error
	// ReplaceRows swaps the whole row set (CSV import).
	ReplaceRows(ctx context.Context, rows []models.Row) error
}

// GridStore persists the ownership grid as a single document.
type GridStore interface {
	GetUserGrid(ctx context.Context) (models.UserGrid, error)
	SaveUserGrid(ctx context.Context, grid models.UserGrid) error
}

// Store is the full persistence surface the server wires together.
type Store interface {
	UserStore
	InventoryStore
	GridStore
}
