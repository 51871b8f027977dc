package handlers

import (
	"context"
	"sort"

	"github.com/jmvaldez/inventario-be/internal/models"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// fakeStore is an in-memory storage.Store for handler tests.
type fakeStore struct {
	users      map[string]models.User
	nextUserID int64

	cols      []models.Column
	rows      []models.Row
	nextRowID int64

	grid    models.UserGrid
	hasGrid bool
}

var _ storage.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]models.User{}}
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) UpsertUser(_ context.Context, user models.User) error {
	if existing, ok := f.users[user.Username]; ok {
		existing.Role = user.Role
		f.users[user.Username] = existing
		return nil
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.Username] = user
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID int64, hash string) error {
	for name, user := range f.users {
		if user.ID == userID {
			user.PasswordHash = hash
			f.users[name] = user
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListColumns(context.Context) ([]models.Column, error) {
	out := make([]models.Column, len(f.cols))
	copy(out, f.cols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeStore) AddColumn(_ context.Context, col models.Column) (models.Column, error) {
	maxSeq := 0
	for _, c := range f.cols {
		if c.Label == col.Label {
			return models.Column{}, storage.ErrAlreadyExists
		}
		if c.Sequence > maxSeq {
			maxSeq = c.Sequence
		}
	}
	col.ID = int64(len(f.cols) + 1)
	col.Sequence = maxSeq + 1
	f.cols = append(f.cols, col)
	for i := range f.rows {
		if _, ok := f.rows[i].Fields[col.Label]; !ok {
			f.rows[i].Fields[col.Label] = ""
		}
	}
	return col, nil
}

func (f *fakeStore) DeleteColumn(_ context.Context, label string) error {
	for i, c := range f.cols {
		if c.Label == label {
			f.cols = append(f.cols[:i], f.cols[i+1:]...)
			for j := range f.rows {
				delete(f.rows[j].Fields, label)
			}
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ReplaceColumns(_ context.Context, cols []models.Column) error {
	f.cols = append([]models.Column(nil), cols...)
	return nil
}

func (f *fakeStore) ListRows(context.Context) ([]models.Row, error) {
	out := make([]models.Row, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (f *fakeStore) AddRow(_ context.Context, fields map[string]string) (models.Row, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	f.nextRowID++
	row := models.Row{ID: f.nextRowID, Fields: fields}
	f.rows = append(f.rows, row)
	return row.Clone(), nil
}

func (f *fakeStore) UpdateRow(_ context.Context, id int64, fields map[string]string) (models.Row, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			if fields == nil {
				fields = map[string]string{}
			}
			f.rows[i].Fields = fields
			return f.rows[i].Clone(), nil
		}
	}
	return models.Row{}, storage.ErrNotFound
}

func (f *fakeStore) DeleteRow(_ context.Context, id int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ReplaceRows(_ context.Context, rows []models.Row) error {
	f.rows = nil
	f.nextRowID = 0
	for _, r := range rows {
		f.nextRowID++
		f.rows = append(f.rows, models.Row{ID: f.nextRowID, Fields: r.Fields})
	}
	return nil
}

func (f *fakeStore) GetUserGrid(context.Context) (models.UserGrid, error) {
	if !f.hasGrid {
		return models.UserGrid{}, storage.ErrNotFound
	}
	return f.grid, nil
}

func (f *fakeStore) SaveUserGrid(_ context.Context, grid models.UserGrid) error {
	f.grid = grid
	f.hasGrid = true
	return nil
}
