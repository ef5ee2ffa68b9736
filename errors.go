package dynstruct

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument matches, under errors.Is, every ArgumentError with
// code ErrCodeInvalidArgument.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentErrorCode categorizes argument errors.
type ArgumentErrorCode string

const (
	// ErrCodeInvalidArgument indicates a source collection that is missing,
	// empty or not a mapping. Raised only during construction.
	ErrCodeInvalidArgument ArgumentErrorCode = "INVALID_ARGUMENT"

	// ErrCodeBadCall indicates a dispatched call with the wrong number or
	// kind of arguments for its shape.
	ErrCodeBadCall ArgumentErrorCode = "BAD_CALL"
)

// ArgumentError reports a rejected argument.
type ArgumentError struct {
	// Code identifies the error category.
	Code ArgumentErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the dispatched member name, empty for construction errors.
	Name string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is ErrInvalidArgument and e carries that code.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument && e.Code == ErrCodeInvalidArgument
}

// IsInvalidArgument returns true if err is a construction argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsBadCall returns true if err is a dispatcher misuse error.
func IsBadCall(err error) bool {
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeBadCall
	}
	return false
}

func newInvalidArgument(format string, args ...any) *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

func newBadCall(name, format string, args ...any) *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeBadCall,
		Message: fmt.Sprintf(format, args...),
		Name:    name,
	}
}
