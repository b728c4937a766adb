package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_NotPlaintext(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter2secret" {
		t.Fatal("hash equals the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash is not bcrypt-shaped: %q", hash)
	}
}

func TestHashPassword_Empty(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
	if !CheckPassword("same-password", h1) || !CheckPassword("same-password", h2) {
		t.Fatal("both hashes must verify against the password")
	}
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !CheckPassword("correct horse", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong horse", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash accepted")
	}
	if CheckPassword("anything", "") {
		t.Fatal("empty hash accepted")
	}
}
