package model

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound: the session id is unknown or was evicted. The
// client must start a new session.
var ErrSessionNotFound = errors.New("session not found")

// ErrInsufficientData: no scoring model could produce a result. This is
// the only error that blocks producing an assessment.
var ErrInsufficientData = errors.New("insufficient data for risk assessment")

// ValidationError reports a missing required field at calculation time.
type ValidationError struct {
	Field FieldID
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}
