package storage

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when an operation targets an id the active
	// store does not hold.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned by the remote store when the session is
	// missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError rejects input before any store is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// RemoteFailure wraps any error that came out of a remote call, either a
// transport error (Status 0) or a non-2xx response.
type RemoteFailure struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteFailure) Unwrap() error { return e.Err }

// Is maps 404 and 401 responses onto the matching sentinels.
func (e *RemoteFailure) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Transient reports whether retrying the same call could succeed:
// transport errors, 5xx responses and 429.
func (e *RemoteFailure) Transient() bool {
	return e.Status == 0 || e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// IsRemoteFailure reports whether err is or wraps a RemoteFailure.
func IsRemoteFailure(err error) bool {
	var rf *RemoteFailure
	return errors.As(err, &rf)
}

// AsRemoteFailure extracts the RemoteFailure from err.
func AsRemoteFailure(err error) (*RemoteFailure, bool) {
	var rf *RemoteFailure
	ok := errors.As(err, &rf)
	return rf, ok
}
