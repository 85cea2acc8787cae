// Package session issues and verifies signed, time-bounded session tokens
// that bind a request to a player name.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcoot/cutthroat/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrEmptySubject   = errors.New("session subject is required")
)

const day = 24 * time.Hour

// Token is a signed session credential
type Token struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the session issuer
type Config struct {
	// Secret is the HMAC key used to sign tokens
	Secret []byte
	// ValidityDays is how long an issued token stays valid
	ValidityDays int
	// Issuer is written to and required in the iss claim
	Issuer string
}

// DefaultConfig returns default session configuration without a secret
func DefaultConfig() Config {
	return Config{
		ValidityDays: 30,
		Issuer:       "cutthroat",
	}
}

// Issuer mints and verifies HS256 JWT session tokens
type Issuer struct {
	secret   []byte
	validity time.Duration
	issuer   string
	clock    clock.Clock
}

// New creates a new Issuer
func New(clk clock.Clock, cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	if cfg.ValidityDays <= 0 {
		return nil, fmt.Errorf("session validity must be positive, got %d days", cfg.ValidityDays)
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultConfig().Issuer
	}

	return &Issuer{
		secret:   cfg.Secret,
		validity: time.Duration(cfg.ValidityDays) * day,
		issuer:   cfg.Issuer,
		clock:    clk,
	}, nil
}

// Validity returns the lifetime of issued tokens
func (i *Issuer) Validity() time.Duration {
	return i.validity
}

// Issue creates a token whose subject is name, expiring after the
// configured validity window
func (i *Issuer) Issue(name string) (*Token, error) {
	if name == "" {
		return nil, ErrEmptySubject
	}

	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   name,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &Token{
		Value:     signed,
		Subject:   name,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// SubjectOf verifies a token and returns the player name bound to it.
// Any malformed, mis-signed, foreign or expired token yields ErrInvalidSession.
func (i *Issuer) SubjectOf(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}
