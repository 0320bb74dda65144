package ovirt

import (
	"context"
	"errors"
	"fmt"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

// APIError is returned for any failed engine call.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ovirt %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrap turns err into an *APIError for op, leaving nil and existing APIErrors alone.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{Op: op, Err: err}
}

// isRetryable reports whether a failed read is worth repeating.
// Cancellation and deadline errors are permanent for the current call.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !isPermanentFault(err)
}

// isPermanentFault checks if the engine rejected the request in a way
// that repeating it cannot fix: bad credentials or a missing entity.
func isPermanentFault(err error) bool {
	var authErr *ovirtsdk4.AuthError
	if errors.As(err, &authErr) {
		return true
	}
	var notFoundErr *ovirtsdk4.NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAPIError checks if an error came from the engine transport.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
