package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/cutthroat/internal/api/middleware"
	"github.com/mcoot/cutthroat/internal/api/request"
	"github.com/mcoot/cutthroat/internal/api/response"
	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/services/player"
)

// PlayerService is the domain behaviour behind the player resource
type PlayerService interface {
	Register(ctx context.Context, name, password string) (*player.Registration, error)
	RetrieveSelf(ctx context.Context, name string) (*model.PlayerView, error)
}

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players PlayerService
	logger  *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players PlayerService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		logger:  logger,
	}
}

// Register handles POST /api/v1/player
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, r, h.logger, NewInvalidRequestError(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, r, h.logger, NewInvalidRequestError(err.Error()))
		return
	}

	reg, err := h.players.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	token := reg.Session
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   int(token.ExpiresAt.Sub(token.IssuedAt) / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(response.SessionTokenHeader, token.Value)

	response.JSON(w, http.StatusCreated, response.RegisterResponse{Username: reg.Username})
}

// GetSelf handles GET /api/v1/player
func (h *PlayerHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	name := middleware.MustGetPlayerName(r.Context())

	view, err := h.players.RetrieveSelf(r.Context(), name)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromView(view))
}
