package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jmvaldez/inventario-be/internal/auth"
	"github.com/jmvaldez/inventario-be/internal/config"
	"github.com/jmvaldez/inventario-be/internal/http/handlers"
	"github.com/jmvaldez/inventario-be/internal/middleware"
	"github.com/jmvaldez/inventario-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	mux.HandleFunc("/health", health.Handle)

	authH := handlers.NewAuthHandler(store, tokens, cfg.DefaultRole)
	mux.HandleFunc("/api/auth/register", authH.HandleRegister)
	mux.HandleFunc("/api/auth/login", authH.HandleLogin)
	mux.Handle("/api/auth/change-password",
		middleware.RequireAuth(tokens, http.HandlerFunc(authH.HandleChangePassword)))

	data := handlers.NewDataHandler(store)
	mux.Handle("/api/data", middleware.RequireAuth(tokens, http.HandlerFunc(data.Handle)))

	columns := handlers.NewColumnsHandler(store)
	mux.Handle("/api/columns", middleware.RequireAuth(tokens, http.HandlerFunc(columns.Handle)))

	email := handlers.NewEmailHandler()
	mux.Handle("/api/email", middleware.RequireAuth(tokens, http.HandlerFunc(email.Handle)))

	backup := handlers.NewBackupHandler(store, nil)
	mux.Handle("/api/backup", middleware.RequireAuth(tokens, http.HandlerFunc(backup.Handle)))

	users := handlers.NewUsersHandler(store, cfg.SeedPassword)
	saveGrid := middleware.RequireAdmin(http.HandlerFunc(users.HandleSave))
	mux.Handle("/api/users", middleware.RequireAuth(tokens, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				users.HandleGet(w, r)
			case http.MethodPost:
				saveGrid.ServeHTTP(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		})))

	importH := handlers.NewImportHandler(store)
	mux.Handle("/api/import",
		middleware.RequireAuth(tokens, middleware.RequireAdmin(http.HandlerFunc(importH.Handle))))

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
