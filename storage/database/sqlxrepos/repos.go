// Package sqlxrepos implements the core repositories on postgres via sqlx.
// Appends are plain INSERTs and state transitions are targeted UPDATEs, so
// concurrent writers never clobber each other's rows.
package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// trapNoRowsErr maps sql.ErrNoRows to the domain sentinel.
func trapNoRowsErr(err, sentinel error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return sentinel
	}
	return err
}

// uniqueConstraint returns the violated unique constraint's name, if any.
func uniqueConstraint(err error) string {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
