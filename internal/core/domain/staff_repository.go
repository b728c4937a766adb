package domain

import "context"

// StaffRow represents a staff record returned from the database.
type StaffRow struct {
	ID           int
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Description  string
}

// StaffRepository defines the data-access contract for staff principals.
// Staff and students are separate namespaces: the same email may exist in
// both tables without conflict.
type StaffRepository interface {
	// GetByEmail returns the staff member matching the given email.
	// Returns (nil, nil) when none is found.
	GetByEmail(ctx context.Context, email string) (*StaffRow, error)

	// GetByID returns the staff member with the given id.
	// Returns (nil, nil) when none is found.
	GetByID(ctx context.Context, id int) (*StaffRow, error)

	// Create inserts a new staff member and returns the generated id.
	// Returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, fullName, phone, email, passwordHash string) (int, error)

	// UpdatePassword replaces the stored password hash for the given staff member.
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}
