package query

import (
	"errors"
	"fmt"
)

var (
	ErrNoStatement     = errors.New("model did not produce a Cypher statement")
	ErrPolicyViolation = errors.New("mutating statements are not allowed")
)

// PolicyViolationError is returned before dispatch when a generated statement would
// write to the store and writes are disabled.
type PolicyViolationError struct {
	Statement string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrPolicyViolation, e.Statement)
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}
