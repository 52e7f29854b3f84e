package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTransitionRejected = errors.New("transition rejected")
	ErrUnavailable        = errors.New("service unavailable")
)

// RejectedError carries the server's stated reason for refusing a status
// write. It unwraps to ErrTransitionRejected so callers can classify it.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return ErrTransitionRejected.Error()
	}
	return fmt.Sprintf("transition rejected: %s", e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrTransitionRejected
}
