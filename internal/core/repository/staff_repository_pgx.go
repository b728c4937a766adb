package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spms-dev/spms/internal/core/domain"
)

// PgxStaffRepository implements domain.StaffRepository using pgxpool.
type PgxStaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new PgxStaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *PgxStaffRepository {
	return &PgxStaffRepository{pool: pool}
}

const staffColumns = `id, full_name, email, phone, password_hash, description`

// GetByEmail returns the staff member matching the given email.
// Returns (nil, nil) when none is found.
func (r *PgxStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffRow, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return r.get(ctx, query, email)
}

// GetByID returns the staff member with the given id.
// Returns (nil, nil) when none is found.
func (r *PgxStaffRepository) GetByID(ctx context.Context, id int) (*domain.StaffRow, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *PgxStaffRepository) get(ctx context.Context, query string, arg any) (*domain.StaffRow, error) {
	var row domain.StaffRow
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&row.ID, &row.FullName, &row.Email, &row.Phone, &row.PasswordHash, &row.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a new staff member and returns the generated id.
func (r *PgxStaffRepository) Create(ctx context.Context, fullName, phone, email, passwordHash string) (int, error) {
	query := `
		INSERT INTO staff (full_name, phone, email, password_hash, description)
		VALUES ($1, $2, $3, $4, '')
		RETURNING id
	`

	var id int
	err := r.pool.QueryRow(ctx, query, fullName, phone, email, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert staff %q: %w", email, domain.ErrDuplicateEmail)
		}
		return 0, err
	}

	return id, nil
}

// UpdatePassword replaces the stored password hash for the given staff member.
func (r *PgxStaffRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE staff SET password_hash = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}
