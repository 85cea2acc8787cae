package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cutthroat/internal/middleware"
)

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// Tracing creates per-request span middleware for the API
func Tracing() func(http.Handler) http.Handler {
	return middleware.Tracing()
}
