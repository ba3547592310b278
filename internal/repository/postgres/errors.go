package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error handling utilities for PostgreSQL.

const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// uniqueViolationConstraint reports whether err is a unique violation on
// the named constraint (e.g. "users_email_key").
func uniqueViolationConstraint(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraint
}

// isForeignKeyViolation checks if an error is a foreign key constraint violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}
