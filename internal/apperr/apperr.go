// Package apperr defines the error taxonomy shared by services and handlers.
// Services wrap these sentinels with context; handlers map them to HTTP
// status codes with errors.Is, so storage-level errors never leak raw.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound marks a missing entity, or one the caller has no role
	// over. The two cases are deliberately indistinguishable to avoid
	// leaking existence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict marks a state-invariant violation, such as a duplicate
	// pending request or an already-existing friendship.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks a failed identity check.
	ErrUnauthorized = errors.New("unauthorized")
)

// Status returns the HTTP status code for an error based on which sentinel
// it wraps. Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
