package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spms-dev/spms/internal/auth"
	"github.com/spms-dev/spms/internal/core/domain"
)

func newAuthService(t *testing.T) (*AuthService, *fakeStudentRepo, *fakeStaffRepo, *auth.TokenCodec) {
	t.Helper()

	students := &fakeStudentRepo{}
	staff := &fakeStaffRepo{}
	codec := auth.NewTokenCodec("auth-service-test-secret", time.Hour)
	return NewAuthService(students, staff, codec), students, staff, codec
}

func seedStudent(t *testing.T, repo *fakeStudentRepo, email, password string) int {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	id, err := repo.Create(context.Background(), "Test Student", "555-0100", email, hash)
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return id
}

func TestLogin_Student(t *testing.T) {
	t.Parallel()

	svc, students, _, codec := newAuthService(t)
	id := seedStudent(t, students, "alice@uni.edu", "s3cret-pass")

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@uni.edu", Password: "s3cret-pass", Role: "student",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Principal.ID != id || result.Principal.Role != domain.RoleStudent {
		t.Fatalf("unexpected principal: %+v", result.Principal)
	}

	principal, ok := codec.Verify(result.Token)
	if !ok {
		t.Fatal("issued token does not verify")
	}
	if principal.UserID != id || principal.Email != "alice@uni.edu" || principal.Role != domain.RoleStudent {
		t.Fatalf("token claims mismatch: %+v", principal)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "ghost@uni.edu", Password: "whatever", Role: "student",
	})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestLogin_WrongRoleNamespace(t *testing.T) {
	t.Parallel()

	// A student credential is invisible when logging in as staff.
	svc, students, _, _ := newAuthService(t)
	seedStudent(t, students, "alice@uni.edu", "s3cret-pass")

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@uni.edu", Password: "s3cret-pass", Role: "staff",
	})
	if !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestLogin_IncorrectPassword(t *testing.T) {
	t.Parallel()

	svc, students, _, _ := newAuthService(t)
	seedStudent(t, students, "alice@uni.edu", "s3cret-pass")

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@uni.edu", Password: "wrong-pass", Role: "student",
	})
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
}

func TestLogin_InvalidRole(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@uni.edu", Password: "s3cret-pass", Role: "admin",
	})
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestSignup_Student(t *testing.T) {
	t.Parallel()

	svc, students, _, codec := newAuthService(t)

	result, err := svc.Signup(context.Background(), domain.SignupRequest{
		FullName: "Bob Jones", PhoneNumber: "555-0101",
		Email: "bob@uni.edu", Password: "initial-pass", Role: "student",
	})
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if result.Principal.Name != "Bob Jones" || result.Principal.Role != domain.RoleStudent {
		t.Fatalf("unexpected principal: %+v", result.Principal)
	}
	if _, ok := codec.Verify(result.Token); !ok {
		t.Fatal("issued token does not verify")
	}

	// The stored hash must verify the password and must not be the plaintext.
	row, err := students.GetByEmail(context.Background(), "bob@uni.edu")
	if err != nil || row == nil {
		t.Fatalf("student not persisted: %v", err)
	}
	if row.PasswordHash == "initial-pass" {
		t.Fatal("plaintext password persisted")
	}
	if !auth.CheckPassword("initial-pass", row.PasswordHash) {
		t.Fatal("stored hash does not verify the password")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, students, _, _ := newAuthService(t)
	seedStudent(t, students, "carol@uni.edu", "original-pass")

	_, err := svc.Signup(context.Background(), domain.SignupRequest{
		FullName: "Imposter", PhoneNumber: "555-0102",
		Email: "carol@uni.edu", Password: "other-pass", Role: "student",
	})
	if !errors.Is(err, ErrStudentExists) {
		t.Fatalf("expected ErrStudentExists, got %v", err)
	}

	// The original credential must be untouched.
	row, _ := students.GetByEmail(context.Background(), "carol@uni.edu")
	if !auth.CheckPassword("original-pass", row.PasswordHash) {
		t.Fatal("existing credential was overwritten")
	}
}

func TestSignup_SameEmailAcrossRoles(t *testing.T) {
	t.Parallel()

	// Students and staff are separate namespaces: the same email may
	// register once per role.
	svc, _, _, _ := newAuthService(t)

	if _, err := svc.Signup(context.Background(), domain.SignupRequest{
		FullName: "Dana", PhoneNumber: "555-0103",
		Email: "dana@uni.edu", Password: "pass-one", Role: "student",
	}); err != nil {
		t.Fatalf("student signup error: %v", err)
	}

	if _, err := svc.Signup(context.Background(), domain.SignupRequest{
		FullName: "Dana", PhoneNumber: "555-0103",
		Email: "dana@uni.edu", Password: "pass-two", Role: "staff",
	}); err != nil {
		t.Fatalf("staff signup with same email error: %v", err)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	svc, students, _, _ := newAuthService(t)
	id := seedStudent(t, students, "erin@uni.edu", "s3cret-pass")

	profile, err := svc.Profile(context.Background(), domain.Principal{
		UserID: id, Email: "erin@uni.edu", Role: domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Profile error: %v", err)
	}
	if profile.Email != "erin@uni.edu" || profile.Role != domain.RoleStudent {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestProfile_RowGone(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newAuthService(t)

	_, err := svc.Profile(context.Background(), domain.Principal{
		UserID: 99, Email: "gone@uni.edu", Role: domain.RoleStudent,
	})
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, students, _, _ := newAuthService(t)
	id := seedStudent(t, students, "frank@uni.edu", "old-pass")
	principal := domain.Principal{UserID: id, Email: "frank@uni.edu", Role: domain.RoleStudent}

	err := svc.ChangePassword(context.Background(), principal, domain.ChangePasswordRequest{
		CurrentPassword: "old-pass", NewPassword: "new-pass-123",
	})
	if err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	row, _ := students.GetByEmail(context.Background(), "frank@uni.edu")
	if !auth.CheckPassword("new-pass-123", row.PasswordHash) {
		t.Fatal("new password does not verify")
	}
	if auth.CheckPassword("old-pass", row.PasswordHash) {
		t.Fatal("old password still verifies")
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	t.Parallel()

	svc, students, _, _ := newAuthService(t)
	id := seedStudent(t, students, "grace@uni.edu", "old-pass")
	principal := domain.Principal{UserID: id, Email: "grace@uni.edu", Role: domain.RoleStudent}

	err := svc.ChangePassword(context.Background(), principal, domain.ChangePasswordRequest{
		CurrentPassword: "not-the-pass", NewPassword: "new-pass-123",
	})
	if !errors.Is(err, ErrWrongCurrentPassword) {
		t.Fatalf("expected ErrWrongCurrentPassword, got %v", err)
	}

	row, _ := students.GetByEmail(context.Background(), "grace@uni.edu")
	if !auth.CheckPassword("old-pass", row.PasswordHash) {
		t.Fatal("password changed despite failed verification")
	}
}
