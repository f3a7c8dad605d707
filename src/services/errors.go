package services

import (
	"errors"
	"strings"
)

// Engine failure taxonomy. Handlers map these to HTTP statuses; the engine
// itself never returns transport codes.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrAuthorization  = errors.New("not authorized")
	ErrConflict       = errors.New("interval unavailable")
	ErrInfrastructure = errors.New("infrastructure failure")
)

// translateDBError folds driver failures into the taxonomy. A unique-index
// violation on the booking interval means a concurrent writer won the race
// (conflict, not a bug); SQLSTATE 55P03 is a lock_timeout expiry and is
// retryable.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAuthorization),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInfrastructure):
		return err
	case strings.Contains(err.Error(), "SQLSTATE 23505"):
		return ErrConflict
	case strings.Contains(err.Error(), "SQLSTATE 55P03"):
		return errors.Join(ErrInfrastructure, err)
	default:
		return errors.Join(ErrInfrastructure, err)
	}
}
