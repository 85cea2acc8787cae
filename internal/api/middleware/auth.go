package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/cutthroat/internal/api/apierr"
)

type contextKey string

const playerNameContextKey contextKey = "player_name"

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "user"

// SessionResolver recovers the player name bound to a session token
type SessionResolver interface {
	SubjectOf(token string) (string, error)
}

// Auth creates authentication middleware
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			name, err := sessions.SubjectOf(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := WithPlayerName(r.Context(), name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// WithPlayerName returns a context carrying the authenticated player name
func WithPlayerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, playerNameContextKey, name)
}

// GetPlayerName returns the authenticated player name from the request context
func GetPlayerName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(playerNameContextKey).(string)
	return name, ok && name != ""
}

// MustGetPlayerName returns the authenticated player name or panics
func MustGetPlayerName(ctx context.Context) string {
	name, ok := GetPlayerName(ctx)
	if !ok {
		panic("no player in context - auth middleware not applied?")
	}
	return name
}
