package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidConstraint is the kind of every configuration error.
var ErrInvalidConstraint = errors.New("invalid constraint")

// ConstraintError names the offending field and why it was rejected.
type ConstraintError struct {
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConstraint, e.Field, e.Reason)
}

func (e *ConstraintError) Unwrap() error { return ErrInvalidConstraint }
