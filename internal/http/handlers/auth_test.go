package handlers

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmvaldez/inventario-be/internal/models/dto"
)

func TestRegister(t *testing.T) {
	store := newFakeStore()
	mux, _ := newTestMux(t, store)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "alice", Password: "secret1", Role: "SUPERVISOR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	out := decodeBody[dto.RegisterResponse](t, rec)
	if !out.Success || out.User.Username != "alice" || out.User.Role != "SUPERVISOR" {
		t.Fatalf("register response mismatch: %+v", out)
	}
	if stored := store.users["alice"]; stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	store := newFakeStore()
	mux, _ := newTestMux(t, store)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "bob", Password: "secret1",
	})
	out := decodeBody[dto.RegisterResponse](t, rec)
	if out.User.Role != testDefaultRole {
		t.Fatalf("role = %q, want default %q", out.User.Role, testDefaultRole)
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	addUser(t, store, tokens, "alice", "secret1", "INSPECTOR")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "alice", Password: "secret1",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	store := newFakeStore()
	mux, _ := newTestMux(t, store)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "alice", Password: "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short password status = %d, want 400", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	addUser(t, store, tokens, "alice", "secret1", "SUPERVISOR")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: "alice", Password: "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body)
	}
	out := decodeBody[dto.LoginResponse](t, rec)
	if out.Token == "" {
		t.Fatal("login response missing token")
	}

	principal, err := tokens.Parse(out.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if principal.Username != "alice" || principal.Role != "SUPERVISOR" {
		t.Fatalf("token claims mismatch: %+v", principal)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	store := newFakeStore()
	mux, _ := newTestMux(t, store)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: "ghost", Password: "secret1",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user status = %d, want 404", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	addUser(t, store, tokens, "alice", "secret1", "INSPECTOR")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: "alice", Password: "wrong",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong password status = %d, want 403", rec.Code)
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	token := addUser(t, store, tokens, "alice", "secret1", "INSPECTOR")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/change-password", token, dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "newsecret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("change password status = %d: %s", rec.Code, rec.Body)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.users["alice"].PasswordHash), []byte("newsecret")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}

func TestChangePasswordWrongCurrentLeavesHash(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	token := addUser(t, store, tokens, "alice", "secret1", "INSPECTOR")
	before := store.users["alice"].PasswordHash

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/change-password", token, dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if store.users["alice"].PasswordHash != before {
		t.Fatal("stored hash changed despite rejected request")
	}
}

func TestChangePasswordTooShort(t *testing.T) {
	store := newFakeStore()
	mux, tokens := newTestMux(t, store)
	token := addUser(t, store, tokens, "alice", "secret1", "INSPECTOR")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/change-password", token, dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBearerGate(t *testing.T) {
	store := newFakeStore()
	mux, _ := newTestMux(t, store)

	// no token at all
	rec := doJSON(t, mux, http.MethodGet, "/api/data", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}

	// present but invalid token
	rec = doJSON(t, mux, http.MethodGet, "/api/data", "bogus.token.here", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("invalid token status = %d, want 403", rec.Code)
	}
}
