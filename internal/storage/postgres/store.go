package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmvaldez/inventario-be/internal/models"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users, columns, inventory
// rows, and the ownership grid. Rows are JSONB documents because columns are
// added at runtime; the store is the single source of truth per request, no
// in-process mirror of any table is kept.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS columns (
			id BIGSERIAL PRIMARY KEY,
			column_id INTEGER NOT NULL,
			label TEXT UNIQUE NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			length TEXT NOT NULL DEFAULT '',
			required TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id BIGSERIAL PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS user_grid (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			roles JSONB NOT NULL,
			cells JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// --- users ---

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at;`
	row := s.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Role)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// UpsertUser inserts the user or updates the role of an existing username.
// An existing user's password hash is left untouched.
func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET role = EXCLUDED.role;`
	_, err := s.pool.Exec(ctx, query, user.Username, user.PasswordHash, user.Role)
	return err
}

// UpdatePassword replaces the stored hash for the user.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1;`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// --- columns ---

// ListColumns returns the definitions in CSV field order.
func (s *Store) ListColumns(ctx context.Context) ([]models.Column, error) {
	const query = `
		SELECT id, column_id, label, type, length, required, width
		FROM columns ORDER BY column_id, id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []models.Column
	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.Sequence, &c.Label, &c.Kind, &c.Length, &c.Required, &c.Width); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// AddColumn appends the definition with the next sequence number and
// backfills an empty value under the new label on every existing row, in one
// transaction so a failed backfill does not leave a half-added column.
func (s *Store) AddColumn(ctx context.Context, col models.Column) (models.Column, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Column{}, err
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO columns (column_id, label, type, length, required, width)
		VALUES ((SELECT COALESCE(MAX(column_id), 0) + 1 FROM columns), $1, $2, $3, $4, $5)
		RETURNING id, column_id, label, type, length, required, width;`
	var created models.Column
	err = tx.QueryRow(ctx, insert, col.Label, col.Kind, col.Length, col.Required, col.Width).
		Scan(&created.ID, &created.Sequence, &created.Label, &created.Kind, &created.Length, &created.Required, &created.Width)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Column{}, storage.ErrAlreadyExists
		}
		return models.Column{}, err
	}

	const backfill = `
		UPDATE inventory
		SET data = jsonb_set(data, ARRAY[$1], '""'::jsonb, true), updated_at = NOW()
		WHERE NOT (data ? $1);`
	if _, err := tx.Exec(ctx, backfill, created.Label); err != nil {
		return models.Column{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Column{}, err
	}
	return created, nil
}

// DeleteColumn removes the definition by label and strips the label from
// every row document.
func (s *Store) DeleteColumn(ctx context.Context, label string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM columns WHERE label = $1;`, label)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	if _, err := tx.Exec(ctx,
		`UPDATE inventory SET data = data - $1, updated_at = NOW() WHERE data ? $1;`, label); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceColumns swaps the whole definition set.
func (s *Store) ReplaceColumns(ctx context.Context, cols []models.Column) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE columns RESTART IDENTITY;`); err != nil {
		return err
	}
	const insert = `
		INSERT INTO columns (column_id, label, type, length, required, width)
		VALUES ($1, $2, $3, $4, $5, $6);`
	for _, c := range cols {
		if _, err := tx.Exec(ctx, insert, c.Sequence, c.Label, c.Kind, c.Length, c.Required, c.Width); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// --- inventory rows ---

// ListRows returns every row document in insertion order.
func (s *Store) ListRows(ctx context.Context) ([]models.Row, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, data FROM inventory ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		var (
			id  int64
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		fields := map[string]string{}
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, fmt.Errorf("row %d: decode document: %w", id, err)
		}
		out = append(out, models.Row{ID: id, Fields: fields})
	}
	return out, rows.Err()
}

// AddRow assigns a new identifier and persists the fields as a document.
func (s *Store) AddRow(ctx context.Context, fields map[string]string) (models.Row, error) {
	doc, err := json.Marshal(nonNil(fields))
	if err != nil {
		return models.Row{}, err
	}
	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO inventory (data) VALUES ($1) RETURNING id;`, doc).Scan(&id)
	if err != nil {
		return models.Row{}, err
	}
	return models.Row{ID: id, Fields: nonNil(fields)}, nil
}

// UpdateRow replaces the whole document at id.
func (s *Store) UpdateRow(ctx context.Context, id int64, fields map[string]string) (models.Row, error) {
	doc, err := json.Marshal(nonNil(fields))
	if err != nil {
		return models.Row{}, err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE inventory SET data = $2, updated_at = NOW() WHERE id = $1;`, id, doc)
	if err != nil {
		return models.Row{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Row{}, storage.ErrNotFound
	}
	return models.Row{ID: id, Fields: nonNil(fields)}, nil
}

// DeleteRow removes the document at id.
func (s *Store) DeleteRow(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM inventory WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceRows swaps the whole row set, reassigning identifiers in order.
func (s *Store) ReplaceRows(ctx context.Context, rows []models.Row) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE inventory RESTART IDENTITY;`); err != nil {
		return err
	}
	for _, row := range rows {
		doc, err := json.Marshal(nonNil(row.Fields))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO inventory (data) VALUES ($1);`, doc); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// --- ownership grid ---

// GetUserGrid loads the grid document. ErrNotFound when none was saved yet.
func (s *Store) GetUserGrid(ctx context.Context) (models.UserGrid, error) {
	var roles, cells []byte
	err := s.pool.QueryRow(ctx, `SELECT roles, cells FROM user_grid WHERE id = 1;`).Scan(&roles, &cells)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserGrid{}, storage.ErrNotFound
		}
		return models.UserGrid{}, err
	}
	var grid models.UserGrid
	if err := json.Unmarshal(roles, &grid.Roles); err != nil {
		return models.UserGrid{}, fmt.Errorf("decode grid roles: %w", err)
	}
	if err := json.Unmarshal(cells, &grid.Users); err != nil {
		return models.UserGrid{}, fmt.Errorf("decode grid cells: %w", err)
	}
	return grid, nil
}

// SaveUserGrid stores the grid document, replacing any previous one.
func (s *Store) SaveUserGrid(ctx context.Context, grid models.UserGrid) error {
	roles, err := json.Marshal(grid.Roles)
	if err != nil {
		return err
	}
	cells, err := json.Marshal(grid.Users)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO user_grid (id, roles, cells)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET roles = EXCLUDED.roles, cells = EXCLUDED.cells, updated_at = NOW();`
	_, err = s.pool.Exec(ctx, query, roles, cells)
	return err
}

func nonNil(fields map[string]string) map[string]string {
	if fields == nil {
		return map[string]string{}
	}
	return fields
}
