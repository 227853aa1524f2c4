package common

import (
	"errors"
	"fmt"
)

var (
	// malformed input: empty required text, identical sender/recipient, bad coordinates
	ErrValidation = errors.New("validation error")

	// state machine rejections, including regressions and repeats
	ErrInvalidStateTransition = errors.New("invalid state transition")

	ErrNotAuthorized = errors.New("not authorized")

	// diary one-entry-per-day rule
	ErrAlreadyWrittenToday = errors.New("already written today")

	// location share no longer active
	ErrExpired = errors.New("expired")

	// repository specific errors
	ErrStorage  = errors.New("storage error")
	ErrNotFound = errors.New("not found")
)

// StorageError is an opaque failure reported by the persistence collaborator.
// The engine passes it through unchanged and never retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// WrapStorage tags err as a StorageError unless it already is one.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Transitionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidStateTransition, fmt.Sprintf(format, args...))
}
