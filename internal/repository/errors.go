package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository errors. Callers match them with errors.Is.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrDreamLogNotFound = errors.New("dream log not found")
	ErrTagExists        = errors.New("tag already exists")
	ErrDreamTagNotFound = errors.New("dream tag not found")
	ErrDreamTagExists   = errors.New("dream tag already exists")
	ErrInvalidReference = errors.New("referenced row does not exist")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}
