package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	if role, err := ParseRole("student"); err != nil || role != RoleStudent {
		t.Fatalf("ParseRole(student): got %q, %v", role, err)
	}
	if role, err := ParseRole("staff"); err != nil || role != RoleStaff {
		t.Fatalf("ParseRole(staff): got %q, %v", role, err)
	}
}

func TestParseRole_Unknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "admin", "Student", "STAFF", " student"} {
		if _, err := ParseRole(raw); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRole(%q): expected ErrUnknownRole, got %v", raw, err)
		}
	}
}
