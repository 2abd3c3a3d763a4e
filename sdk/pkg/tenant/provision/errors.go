package provision

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken means a restaurant is already registered for the email.
	ErrEmailTaken = errors.New("a restaurant with this email already exists")

	// ErrIdentifierExhausted means no unique restaurant id was found within
	// the configured number of attempts.
	ErrIdentifierExhausted = errors.New("could not generate a unique restaurant id")

	// ErrRollbackFailed means compensation after a failed provisioning did not
	// fully complete and resources may be left behind.
	ErrRollbackFailed = errors.New("provisioning rollback failed")
)

// ValidationError rejects a malformed signup request. Maps to HTTP 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StepError reports which provisioning step failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("provisioning step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
