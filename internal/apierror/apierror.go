// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Code is the machine-readable error kind surfaced to clients.
type Code string

const (
	CodeValidation    Code = "validation_error"
	CodeStateConflict Code = "state_conflict"
	CodeUnauthorized  Code = "unauthorized"
	CodeNotFound      Code = "not_found"
	CodeInternal      Code = "internal_error"
)

// Error is the canonical error envelope for all 4xx/5xx HTTP responses.
// It doubles as the typed error returned by services so handlers can map
// the code to an HTTP status without string matching.
type Error struct {
	Code   Code   `json:"code"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

// Status maps the error code to its HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeStateConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(msg string) *Error {
	return &Error{Code: CodeInternal, Detail: msg}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Detail: msg}
}

func StateConflict(msg string) *Error {
	return &Error{Code: CodeStateConflict, Detail: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Detail: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Detail: msg}
}

// ValidationFields wraps multiple field errors from request binding.
type ValidationFields struct {
	Code   Code              `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationFields {
	return &ValidationFields{Code: CodeValidation, Detail: "validation failed", Fields: fields}
}
