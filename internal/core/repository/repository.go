// Package repository contains the pgx implementations of the domain
// repository interfaces.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE class for unique constraint failures.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure.
// Used to map duplicate-email inserts to domain.ErrDuplicateEmail: the
// constraint, not the application pre-check, is authoritative under
// concurrent signups.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
