package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmvaldez/inventario-be/internal/auth"
	"github.com/jmvaldez/inventario-be/internal/middleware"
	"github.com/jmvaldez/inventario-be/internal/models"
)

const (
	testSecret      = "test-secret"
	testDefaultRole = "INSPECTOR"
)

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, "inventario-test", time.Hour)
}

// newTestMux wires the handlers the same way the server package does.
func newTestMux(t *testing.T, store *fakeStore) (*http.ServeMux, *auth.TokenManager) {
	t.Helper()
	tokens := newTokens()
	mux := http.NewServeMux()

	authH := NewAuthHandler(store, tokens, testDefaultRole)
	mux.HandleFunc("/api/auth/register", authH.HandleRegister)
	mux.HandleFunc("/api/auth/login", authH.HandleLogin)
	mux.Handle("/api/auth/change-password",
		middleware.RequireAuth(tokens, http.HandlerFunc(authH.HandleChangePassword)))

	data := NewDataHandler(store)
	mux.Handle("/api/data", middleware.RequireAuth(tokens, http.HandlerFunc(data.Handle)))

	columns := NewColumnsHandler(store)
	mux.Handle("/api/columns", middleware.RequireAuth(tokens, http.HandlerFunc(columns.Handle)))

	email := NewEmailHandler()
	mux.Handle("/api/email", middleware.RequireAuth(tokens, http.HandlerFunc(email.Handle)))

	backup := NewBackupHandler(store, func() time.Time {
		return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	})
	mux.Handle("/api/backup", middleware.RequireAuth(tokens, http.HandlerFunc(backup.Handle)))

	users := NewUsersHandler(store, "password123")
	saveGrid := middleware.RequireAdmin(http.HandlerFunc(users.HandleSave))
	mux.Handle("/api/users", middleware.RequireAuth(tokens, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				saveGrid.ServeHTTP(w, r)
				return
			}
			users.HandleGet(w, r)
		})))

	importH := NewImportHandler(store)
	mux.Handle("/api/import",
		middleware.RequireAuth(tokens, middleware.RequireAdmin(http.HandlerFunc(importH.Handle))))

	return mux, tokens
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

// addUser seeds the fake store and returns a bearer token for the user.
func addUser(t *testing.T, store *fakeStore, tokens *auth.TokenManager, username, password, role string) string {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.User{
		Username:     username,
		Role:         role,
		PasswordHash: mustHash(t, password),
	})
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	token, err := tokens.Generate(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
