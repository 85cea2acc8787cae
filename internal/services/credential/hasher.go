// Package credential hashes and verifies player passwords with bcrypt.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured
const DefaultCost = 12

// maxPasswordBytes is the longest input bcrypt will consume
const maxPasswordBytes = 72

// saltLen is the length of the "$2a$NN$" prefix plus the 22 character salt
const saltLen = 29

// Errors
var (
	ErrInvalidCost     = errors.New("bcrypt cost out of range")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Hasher produces and checks salted password digests at a fixed cost.
// The cost is process configuration and cannot be chosen per call.
type Hasher struct {
	cost int
}

// New creates a Hasher for the given bcrypt cost
func New(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured work factor
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash generates a fresh salt and returns the digest together with that salt.
// bcrypt embeds the salt in the digest; it is returned separately so it can
// be stored alongside.
func (h *Hasher) Hash(password string) (digest, salt string, err error) {
	if len(password) > maxPasswordBytes {
		return "", "", ErrPasswordTooLong
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	digest = string(b)
	return digest, digest[:saltLen], nil
}

// Verify reports whether password matches digest. A salt that does not
// belong to digest, or a malformed digest, is a mismatch.
func (h *Hasher) Verify(password, digest, salt string) bool {
	if len(digest) < saltLen || digest[:saltLen] != salt {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
