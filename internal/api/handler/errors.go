package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/cutthroat/internal/api/apierr"
)

// WriteError writes an error response, logging failures the caller cannot act on
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if status := apierr.StatusOf(err); status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// MethodNotAllowed answers requests whose path exists under a different method
func MethodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		apierr.WriteError(w, apierr.NewMethodNotAllowedError(r.Method))
	}
}
