package database

import (
	"strings"

	"github.com/lib/pq"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

// Postgres error codes this backend distinguishes. Anything else passes
// through untouched.
const (
	pqNotNullViolation    = "23502"
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
)

// MapPQError converts a PostgreSQL constraint violation to an AppError
// with a meaningful message. Other errors are returned unchanged, so
// callers can return the result unconditionally.
func MapPQError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return errors.Conflict(uniqueMessage(pqErr))
	case pqForeignKeyViolation:
		return errors.BadRequest("referenced record does not exist")
	case pqNotNullViolation:
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{col: "must not be empty"})
	case pqCheckViolation:
		return checkViolation(pqErr)
	}
	return err
}

// checkViolation points a CHECK failure back at the field the client
// sent. Constraint names embed the column name, see schema.go.
func checkViolation(pqErr *pq.Error) *errors.AppError {
	for _, c := range [...]struct{ field, message string }{
		{"stock_qty", "must not be negative"},
		{"reorder_level", "must be positive"},
		{"quantity", "must be positive"},
		{"price", "must be positive"},
	} {
		if strings.Contains(pqErr.Constraint, c.field) {
			return errors.Validation(map[string]string{c.field: c.message})
		}
	}
	return errors.BadRequest("data validation failed: " + pqErr.Constraint)
}

func uniqueMessage(pqErr *pq.Error) string {
	switch {
	case strings.Contains(pqErr.Constraint, "medicines_name_batch"):
		return "a medicine with this name and batch number already exists"
	case strings.Contains(pqErr.Constraint, "users_email"):
		return "a user with this email already exists"
	}
	return "a record with these values already exists"
}
