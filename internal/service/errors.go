package service

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable domain error code. The transport layer
// maps codes to HTTP statuses; the core never formats responses itself.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeTaskNotFound    Code = "TASK_NOT_FOUND"
	CodeUserNotFound    Code = "USER_NOT_FOUND"
	CodeFamilyNotFound  Code = "FAMILY_NOT_FOUND"
	CodeInvalidStatus   Code = "INVALID_STATUS"
	CodeInvalidPriority Code = "INVALID_PRIORITY"
	CodePastDueDate     Code = "PAST_DUE_DATE"
	CodeSubtaskCycle    Code = "SUBTASK_CYCLE"
	// CodeMaxSubtasks is reserved for a future child-count cap; nothing
	// raises it yet.
	CodeMaxSubtasks Code = "MAX_SUBTASKS"
	CodeInternal    Code = "INTERNAL_ERROR"
)

// Error is a domain failure carrying its code. Err, when set, is the wrapped
// lower-layer cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a domain error with the given code and message.
func E(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a domain code to a lower-layer failure so it is never
// swallowed or leaked raw.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the domain code from err, or CodeInternal if err carries
// none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
