// Package credentials owns password hashing and verification for the feedback
// board. Hashes are salted bcrypt strings; verification is constant-time and
// fails closed on malformed input.
package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with a tunable bcrypt work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Costs outside the
// supported range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext. A fresh random salt is used
// per call, so two hashes of the same plaintext differ.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt error: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches storedHash. A corrupt or malformed
// stored hash results in false, never an error or panic.
func (h *Hasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
