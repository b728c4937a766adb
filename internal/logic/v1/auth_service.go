package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spms-dev/spms/internal/auth"
	"github.com/spms-dev/spms/internal/core/domain"
	"github.com/spms-dev/spms/middleware"
)

// AuthService implements the login, signup and profile flows.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	students domain.StudentRepository
	staff    domain.StaffRepository
	codec    *auth.TokenCodec
}

// NewAuthService creates a new AuthService.
func NewAuthService(students domain.StudentRepository, staff domain.StaffRepository, codec *auth.TokenCodec) *AuthService {
	return &AuthService{students: students, staff: staff, codec: codec}
}

// Login verifies credentials for the claimed role and issues a session
// token. A credential of the other role is invisible here: students and
// staff are separate namespaces, so the lookup simply finds nothing.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("role", req.Role),
	))
	defer span.End()

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var summary domain.PrincipalSummary

	switch role {
	case domain.RoleStudent:
		row, err := s.students.GetByEmail(ctx, req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("query student %q: %w", req.Email, err)
		}
		if row == nil {
			span.AddEvent("authentication.failed")
			return nil, fmt.Errorf("authenticate student %q: %w", req.Email, ErrStudentNotFound)
		}
		if !auth.CheckPassword(req.Password, row.PasswordHash) {
			span.AddEvent("authentication.failed")
			return nil, fmt.Errorf("authenticate student %q: %w", req.Email, ErrIncorrectPassword)
		}
		summary = domain.PrincipalSummary{ID: row.ID, Name: row.FullName, Email: row.Email, Role: role}

	case domain.RoleStaff:
		row, err := s.staff.GetByEmail(ctx, req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("query staff %q: %w", req.Email, err)
		}
		if row == nil {
			span.AddEvent("authentication.failed")
			return nil, fmt.Errorf("authenticate staff %q: %w", req.Email, ErrStaffNotFound)
		}
		if !auth.CheckPassword(req.Password, row.PasswordHash) {
			span.AddEvent("authentication.failed")
			return nil, fmt.Errorf("authenticate staff %q: %w", req.Email, ErrIncorrectPassword)
		}
		summary = domain.PrincipalSummary{ID: row.ID, Name: row.FullName, Email: row.Email, Role: role}
	}

	token, err := s.codec.Issue(domain.Principal{UserID: summary.ID, Email: summary.Email, Role: role})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", summary.ID), attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")

	return &domain.AuthResult{Principal: summary, Token: token}, nil
}

// Signup registers a new principal of the claimed role and issues a
// session token. The existence pre-check enforces per-role email
// uniqueness at the application layer; the store's constraint remains
// authoritative and a racing duplicate insert surfaces as the same
// conflict.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("role", req.Role),
	))
	defer span.End()

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var summary domain.PrincipalSummary

	switch role {
	case domain.RoleStudent:
		existing, err := s.students.GetByEmail(ctx, req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("check existing student: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("register student %q: %w", req.Email, ErrStudentExists)
		}

		id, err := s.students.Create(ctx, req.FullName, req.PhoneNumber, req.Email, passwordHash)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				return nil, fmt.Errorf("register student %q: %w", req.Email, ErrStudentExists)
			}
			span.RecordError(err)
			return nil, fmt.Errorf("insert student: %w", err)
		}
		summary = domain.PrincipalSummary{ID: id, Name: req.FullName, Email: req.Email, Role: role}

	case domain.RoleStaff:
		existing, err := s.staff.GetByEmail(ctx, req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("check existing staff: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("register staff %q: %w", req.Email, ErrStaffExists)
		}

		id, err := s.staff.Create(ctx, req.FullName, req.PhoneNumber, req.Email, passwordHash)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				return nil, fmt.Errorf("register staff %q: %w", req.Email, ErrStaffExists)
			}
			span.RecordError(err)
			return nil, fmt.Errorf("insert staff: %w", err)
		}
		summary = domain.PrincipalSummary{ID: id, Name: req.FullName, Email: req.Email, Role: role}
	}

	token, err := s.codec.Issue(domain.Principal{UserID: summary.ID, Email: summary.Email, Role: role})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", summary.ID), attribute.Bool("registration.success", true))
	span.AddEvent("user.registered")

	return &domain.AuthResult{Principal: summary, Token: token}, nil
}

// Profile resolves the full principal row behind a verified session.
// The token carries only minimal claims, so the row is re-read by email.
func (s *AuthService) Profile(ctx context.Context, p domain.Principal) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	switch p.Role {
	case domain.RoleStudent:
		row, err := s.students.GetByEmail(ctx, p.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("query student %q: %w", p.Email, err)
		}
		if row == nil {
			return nil, fmt.Errorf("profile %q: %w", p.Email, ErrPrincipalNotFound)
		}
		return &domain.Profile{
			Name: row.FullName, Email: row.Email, Phone: row.Phone,
			Description: row.Description, Role: p.Role,
		}, nil

	case domain.RoleStaff:
		row, err := s.staff.GetByEmail(ctx, p.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("query staff %q: %w", p.Email, err)
		}
		if row == nil {
			return nil, fmt.Errorf("profile %q: %w", p.Email, ErrPrincipalNotFound)
		}
		return &domain.Profile{
			Name: row.FullName, Email: row.Email, Phone: row.Phone,
			Description: row.Description, Role: p.Role,
		}, nil
	}

	return nil, fmt.Errorf("profile: %w", domain.ErrUnknownRole)
}

// ChangePassword re-verifies the current password and replaces the stored
// hash. The new plaintext never persists anywhere.
func (s *AuthService) ChangePassword(ctx context.Context, p domain.Principal, req domain.ChangePasswordRequest) error {
	ctx, span := middleware.StartSpan(ctx, "auth.change_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	switch p.Role {
	case domain.RoleStudent:
		row, err := s.students.GetByEmail(ctx, p.Email)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("query student %q: %w", p.Email, err)
		}
		if row == nil {
			return fmt.Errorf("change password %q: %w", p.Email, ErrPrincipalNotFound)
		}
		if !auth.CheckPassword(req.CurrentPassword, row.PasswordHash) {
			return fmt.Errorf("change password %q: %w", p.Email, ErrWrongCurrentPassword)
		}
		return s.students.UpdatePassword(ctx, row.ID, newHash)

	case domain.RoleStaff:
		row, err := s.staff.GetByEmail(ctx, p.Email)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("query staff %q: %w", p.Email, err)
		}
		if row == nil {
			return fmt.Errorf("change password %q: %w", p.Email, ErrPrincipalNotFound)
		}
		if !auth.CheckPassword(req.CurrentPassword, row.PasswordHash) {
			return fmt.Errorf("change password %q: %w", p.Email, ErrWrongCurrentPassword)
		}
		return s.staff.UpdatePassword(ctx, row.ID, newHash)
	}

	return fmt.Errorf("change password: %w", domain.ErrUnknownRole)
}
