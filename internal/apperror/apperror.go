// Package apperror defines the domain error kinds shared by every layer.
//
// Services and repositories return *AppError values that wrap one of the
// sentinel kinds below. The HTTP layer maps the kind to a status code and uses
// Code as the machine-readable identifier in the response envelope.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJSON = errors.New("invalid json")
	ErrBadRequest  = errors.New("bad request")
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
)

// Machine-readable error codes sent to clients.
const (
	CodeInvalidJSON    = "invalid_json"
	CodeBadRequest     = "bad_request"
	CodeValidation     = "validation_error"
	CodeDuplicateEmail = "duplicate_email"
	CodeUserNotFound   = "user_not_found"
	CodeNotFound       = "not_found"
	CodeServerError    = "server_error"
)

type AppError struct {
	Err     error  // sentinel kind
	Code    string // client-facing code, e.g. "duplicate_email"
	Message string // human-readable message
	Field   string // optional: input field that caused the error
	Details any    // optional: extra payload for the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidJSON reports a missing or malformed request body.
func InvalidJSON(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidJSON,
		Code:    CodeInvalidJSON,
		Message: message,
	}
}

// BadRequest reports malformed query parameters.
func BadRequest(message string) *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	e := &AppError{
		Err:     ErrValidation,
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
	if field != "" {
		e.Details = map[string]string{"field": field}
	}
	return e
}

func NotFound(resource string, id int64) *AppError {
	code := CodeNotFound
	if resource == "user" {
		code = CodeUserNotFound
	}
	return &AppError{
		Err:     ErrNotFound,
		Code:    code,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// DuplicateEmail reports a unique-constraint collision on users.email.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    CodeDuplicateEmail,
		Message: fmt.Sprintf("email %s already exists", email),
		Field:   "email",
	}
}

// CodeOf returns the client-facing code carried by err, or CodeServerError
// when err is not an *AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return CodeServerError
}
