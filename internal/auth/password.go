package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor the original deployment ran with.
const DefaultBcryptCost = 10

// Hasher wraps bcrypt with an injectable cost so tests can run at the
// minimum cost instead of paying ~100ms per hash.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plaintext. The salt is generated
// fresh on every call, so hashing the same password twice yields different
// digests. The digest string embeds algorithm, cost, and salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates input past 72 bytes; reject instead.
		return "", fmt.Errorf("hash password: input exceeds 72 bytes")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. The underlying
// comparison is constant-time. Any error other than a plain mismatch
// (e.g. a malformed digest) is returned so callers can log it.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("verify password: %w", err)
	}
	return true, nil
}
