package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FilmDB/internal/logging"

	"gorm.io/gorm"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnauthorizedError reports a caller lacking membership, ownership or
// authorship for the operation.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// QueryError reports a data-layer failure: missing rows, uniqueness
// violations and the like.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string { return e.Message }

func (e *QueryError) Unwrap() error { return e.Err }

// NotFound reports whether the error describes a missing entity.
func (e *QueryError) NotFound() bool {
	return strings.HasSuffix(e.Message, "not found")
}

func validationErr(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func unauthorizedErr(msg string) error {
	return &UnauthorizedError{Message: msg}
}

func notFound(entity string) error {
	return &QueryError{Message: entity + " not found", Err: gorm.ErrRecordNotFound}
}

// queryErr converts data-layer failures into QueryErrors naming entity.
// Typed service errors and context cancellation pass through untouched.
func queryErr(entity string, err error) error {
	var (
		qe *QueryError
		ve *ValidationError
		ue *UnauthorizedError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &qe), errors.As(err, &ve), errors.As(err, &ue):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &QueryError{Message: entity + " not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &QueryError{Message: entity + " already exists", Err: err}
	default:
		logging.Error().Err(err).Str("entity", entity).Msg("query failed")
		return &QueryError{Message: entity + " query failed", Err: err}
	}
}

const errNotMember = "not a member of this community"
