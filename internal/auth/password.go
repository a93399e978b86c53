package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/farmconnect/harvest/internal/config"
)

// Hasher wraps bcrypt with a configured cost.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher from configuration.
func NewHasher(cfg config.Config) *Hasher {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether the plaintext matches the stored hash.
func (h *Hasher) Compare(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
