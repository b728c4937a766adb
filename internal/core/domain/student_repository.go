package domain

import "context"

// StudentRow represents a student record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type StudentRow struct {
	ID           int
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Description  string
}

// StudentRepository defines the data-access contract for student principals.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type StudentRepository interface {
	// GetByEmail returns the student matching the given email.
	// Returns (nil, nil) when no student is found.
	GetByEmail(ctx context.Context, email string) (*StudentRow, error)

	// GetByID returns the student with the given id.
	// Returns (nil, nil) when no student is found.
	GetByID(ctx context.Context, id int) (*StudentRow, error)

	// Create inserts a new student and returns the generated id.
	// Returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, fullName, phone, email, passwordHash string) (int, error)

	// UpdatePassword replaces the stored password hash for the given student.
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}
