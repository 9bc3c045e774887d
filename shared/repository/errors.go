package repository

import (
	"errors"

	"github.com/lib/pq"

	"hotelier/shared/constant"
)

// pqCode extracts the postgres error code from a (possibly wrapped) error.
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return constant.Empty
}

// ConstraintName returns the violated constraint name, if any.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return constant.Empty
}

// IsUniqueViolation reports whether err is a postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeUniqueViolation
}

// IsFkViolation reports whether err is a postgres foreign key violation.
func IsFkViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeFkViolation
}

// IsCheckViolation reports whether err is a postgres check constraint violation.
func IsCheckViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeCheckViolation
}

// IsExclusionViolation reports whether err is a postgres exclusion constraint
// violation, raised by the booking overlap guard.
func IsExclusionViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeExclusionViolation
}
