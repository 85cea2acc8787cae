package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cutthroat/internal/api/handler"
	"github.com/mcoot/cutthroat/internal/api/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService handler.PlayerService
	Sessions      middleware.SessionResolver
	Storage       handler.Pinger
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Sessions)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tracing())
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Registration needs no session
	api.HandleFunc("/player", playerHandler.Register).Methods(http.MethodPost)

	// Self lookup requires a session
	api.Handle("/player", authMiddleware(http.HandlerFunc(playerHandler.GetSelf))).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Known paths under any other method
	api.HandleFunc("/player", handler.MethodNotAllowed(http.MethodGet, http.MethodPost))
	api.HandleFunc("/health", handler.MethodNotAllowed(http.MethodGet))

	return r
}
