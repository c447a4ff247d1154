package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	invalidTextEncoding = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == uniqueViolation
}

// isInvalidID reports a malformed UUID literal, which callers treat as a miss.
func isInvalidID(err error) bool {
	return pgErrorCode(err) == invalidTextEncoding
}
