// Package player orchestrates registration and self-lookup on top of the
// credential hasher, the player registry and the session issuer.
package player

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/services/credential"
	"github.com/mcoot/cutthroat/internal/services/registry"
	"github.com/mcoot/cutthroat/internal/services/session"
)

const tracerName = "github.com/mcoot/cutthroat/internal/services/player"

// Registration is the result of a successful Register call
type Registration struct {
	Username string
	Session  *session.Token
}

// Service handles the player resource operations
type Service struct {
	hasher   *credential.Hasher
	registry *registry.Registry
	sessions *session.Issuer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a new player Service
func New(hasher *credential.Hasher, registry *registry.Registry, sessions *session.Issuer, logger *slog.Logger) *Service {
	return &Service{
		hasher:   hasher,
		registry: registry,
		sessions: sessions,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Register creates a player record for name and opens a session for it.
// The existence check is a fast path; the store's uniqueness constraint is
// what guarantees a single winner between concurrent callers.
func (s *Service) Register(ctx context.Context, name, password string) (_ *Registration, err error) {
	ctx, span := s.tracer.Start(ctx, "player.Register", trace.WithAttributes(attribute.String("player.name", name)))
	defer func() { endSpan(span, err) }()

	exists, err := s.registry.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Info("player already registered", "name", name)
		return nil, &model.ConflictError{Name: name}
	}

	digest, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if _, err := s.registry.Create(ctx, name, digest, salt); err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(name)
	if err != nil {
		return nil, fmt.Errorf("issue session for %s: %w", name, err)
	}

	return &Registration{
		Username: name,
		Session:  token,
	}, nil
}

// RetrieveSelf returns the redacted record of an authenticated caller
func (s *Service) RetrieveSelf(ctx context.Context, name string) (_ *model.PlayerView, err error) {
	ctx, span := s.tracer.Start(ctx, "player.RetrieveSelf", trace.WithAttributes(attribute.String("player.name", name)))
	defer func() { endSpan(span, err) }()

	record, err := s.registry.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	view := Redact(record)
	return &view, nil
}

// Redact drops credentials and internal fields from a record.
// The returned view never shares slices with the record.
func Redact(record *model.PlayerRecord) model.PlayerView {
	return model.PlayerView{
		Name:          record.Name,
		CurrentGameID: record.CurrentGameID,
		CurrentRoom:   record.CurrentRoom,
		Balls:         copySequence(record.Balls),
		OrigBalls:     copySequence(record.OrigBalls),
	}
}

func copySequence(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
