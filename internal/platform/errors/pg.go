package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE classes we care about
const (
	pgUniqueViolation  = "23505"
	pgConnectionFailed = "08006"
	pgTooManyConns     = "53300"
)

// MapPg converts a pgx error into a project *Error; other errors pass through wrapped as DB
func MapPg(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(err, ErrorCodeDuplicateKey, pgErr.ConstraintName)
		case pgConnectionFailed, pgTooManyConns:
			return Wrap(err, ErrorCodeUnavailable, "postgres unavailable")
		}
	}
	return Wrap(err, ErrorCodeDB, "postgres error")
}

// IsRetryable reports whether the error is a transient backend failure
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		switch pgErr.Code {
		case pgConnectionFailed, pgTooManyConns:
			return true
		}
	}
	return IsCode(err, ErrorCodeUnavailable)
}
