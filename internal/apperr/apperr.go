// Package apperr defines the error taxonomy shared by storage, services and
// handlers. Errors are wrapped with fmt.Errorf("%w") so callers classify them
// with errors.Is and the HTTP layer translates them exactly once.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrTimeout         = errors.New("storage timeout")
)

func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func Unauthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
}

func Unauthorized(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
}

func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// WrapInternal classifies an unexpected storage or signing failure. Errors that
// already carry a taxonomy kind pass through untouched, and an expired deadline
// becomes ErrTimeout instead of a generic internal error.
func WrapInternal(err error, op string) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

// Classified reports whether err already belongs to the taxonomy.
func Classified(err error) bool {
	for _, kind := range []error{
		ErrUnauthenticated, ErrUnauthorized, ErrNotFound, ErrConflict,
		ErrInvalidInput, ErrInternal, ErrTimeout,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// HTTPStatus maps an error to the status code used in the response envelope.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show a client. Internal failures are
// collapsed so storage details never leak into responses.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusGatewayTimeout:
		return "storage timeout"
	default:
		return err.Error()
	}
}
