package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already registered")
)

// ConflictError reports a registration attempt for a name that is taken
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already registered", e.Name)
}

func (e *ConflictError) Unwrap() error {
	return ErrPlayerExists
}

// NotFoundError reports an identity with no backing record
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no user %s", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPlayerNotFound
}
