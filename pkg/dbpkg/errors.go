package dbpkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres error codes the repositories react to.
const (
	CodeCheckViolation       = "23514"
	CodeForeignKeyViolation  = "23503"
	CodeNumericOutOfRange    = "22003"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// Constraint returns the violated constraint name and the error code
// regardless of whether the lib/pq or the pgx driver produced the error.
func Constraint(err error) (name, code string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint, string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code
	}

	return "", ""
}
