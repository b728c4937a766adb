package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spms-dev/spms/internal/core/domain"
)

// PgxStudentRepository implements domain.StudentRepository using pgxpool.
type PgxStudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new PgxStudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *PgxStudentRepository {
	return &PgxStudentRepository{pool: pool}
}

const studentColumns = `id, full_name, email, phone, password_hash, description`

// GetByEmail returns the student matching the given email.
// Returns (nil, nil) when no student is found.
func (r *PgxStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.StudentRow, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`
	return r.get(ctx, query, email)
}

// GetByID returns the student with the given id.
// Returns (nil, nil) when no student is found.
func (r *PgxStudentRepository) GetByID(ctx context.Context, id int) (*domain.StudentRow, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *PgxStudentRepository) get(ctx context.Context, query string, arg any) (*domain.StudentRow, error) {
	var row domain.StudentRow
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

// Create inserts a new student and returns the generated id.
func (r *PgxStudentRepository) Create(ctx context.Context, fullName, phone, email, passwordHash string) (int, error) {
	query := `
		INSERT INTO students (full_name, phone, email, password_hash, description)
		VALUES ($1, $2, $3, $4, '')
		RETURNING id
	`

	var id int
	err := r.pool.QueryRow(ctx, query, fullName, phone, email, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert student %q: %w", email, domain.ErrDuplicateEmail)
		}
		return 0, err
	}

	return id, nil
}

// UpdatePassword replaces the stored password hash for the given student.
func (r *PgxStudentRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE students SET password_hash = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}
