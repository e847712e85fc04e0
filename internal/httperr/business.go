package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// BusinessError is a rule violation the caller can act on. Code is stable
// and machine readable.
type BusinessError struct {
	Code    string
	Details any
}

func (e *BusinessError) Error() string {
	return e.Code
}

// Is matches on Code so a detailed error still equals its sentinel.
func (e *BusinessError) Is(target error) bool {
	var be *BusinessError
	if errors.As(target, &be) {
		return be.Code == e.Code
	}
	return false
}

func ErrBusiness(code string) error {
	return &BusinessError{Code: code}
}

func WithDetails(code string, details any) error {
	return &BusinessError{Code: code, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "".
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsExclusionConflict reports a Postgres exclusion_violation (23P01).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01"
	}
	return false
}
