// Package auth implements the authentication core: password hashing,
// session token issuance and verification, and the session cookie.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor used for all stored hashes.
const hashCost = 10

// ErrEmptyPassword rejects hashing of an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword derives a salted one-way hash from the plaintext.
// bcrypt embeds a fresh salt per call, so hashing the same password twice
// yields different hashes.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext attempt against a stored hash.
// A mismatch or a malformed stored hash both report false; this function
// never fails a request with an error.
func CheckPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
