package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an empty plaintext reaches the hasher.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns a bcrypt digest of plain using the given cost. The
// digest encodes its own algorithm, cost and salt, so verification needs
// no external state. An empty plaintext is rejected before hashing.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt digest with a plaintext candidate.
// A mismatch yields false, not an error; callers map it to an
// authentication failure.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
