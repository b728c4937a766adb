package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of principal kinds. Students and staff live in
// separate tables and separate email namespaces.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// ErrUnknownRole indicates a role string outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a raw role string. Anything but the two known
// literals is a parse failure, never a default branch.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleStaff:
		return RoleStaff, nil
	}
	return "", fmt.Errorf("parse role %q: %w", s, ErrUnknownRole)
}

// Principal is the identity decoded from a verified session token.
// It carries only the minimal claims; handlers re-resolve the full row
// by email or id when they need profile fields.
type Principal struct {
	UserID int
	Email  string
	Role   Role
}
