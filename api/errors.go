// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the bufq library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrCapacity is returned when a prepend requests more bytes than the
	// head buffer's headroom can hold.
	ErrCapacity = fmt.Errorf("not enough headroom to prepend")

	// ErrUnderflow is returned when a strict split or trim requests more
	// bytes than the queue currently holds.
	ErrUnderflow = fmt.Errorf("attempt to remove more bytes than are present")

	// ErrEmpty is returned when popping a node from an empty queue.
	ErrEmpty = fmt.Errorf("queue is empty")

	// ErrInvalidArgument covers malformed sizes (negative lengths,
	// zero block sizes and the like).
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeCapacity
	ErrCodeUnderflow
	ErrCodeEmpty
	ErrCodeInvalidArgument
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
