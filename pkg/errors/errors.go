package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels, so callers can branch with errors.Is without caring which
// constructor produced the error
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// AppError is the error type the HTTP layer knows how to render. Code and
// StatusCode drive the response envelope, Err keeps the sentinel reachable
// for errors.Is.
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches field-level details, typically validation failures
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// New builds an AppError from scratch for cases the named constructors
// below do not cover
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap keeps err in the chain while giving it an API-facing code and status
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func sentinel(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NotFound reports that the named resource does not exist
func NotFound(resource string) *AppError {
	return sentinel(ErrNotFound, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

func Unauthorized(message string) *AppError {
	return sentinel(ErrUnauthorized, "UNAUTHORIZED", message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return sentinel(ErrForbidden, "FORBIDDEN", message, http.StatusForbidden)
}

func BadRequest(message string) *AppError {
	return sentinel(ErrBadRequest, "BAD_REQUEST", message, http.StatusBadRequest)
}

func Conflict(message string) *AppError {
	return sentinel(ErrConflict, "CONFLICT", message, http.StatusConflict)
}

func Internal(message string) *AppError {
	return sentinel(ErrInternal, "INTERNAL_ERROR", message, http.StatusInternalServerError)
}

// Validation reports per-field failures from request binding
func Validation(details map[string]string) *AppError {
	return sentinel(ErrValidation, "VALIDATION_ERROR", "validation failed", http.StatusBadRequest).
		WithDetails(details)
}

// InvalidCredentials deliberately does not say whether the email or the
// password was wrong
func InvalidCredentials() *AppError {
	return sentinel(ErrInvalidCredentials, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
}

func TokenExpired() *AppError {
	return sentinel(ErrTokenExpired, "TOKEN_EXPIRED", "token has expired", http.StatusUnauthorized)
}

func TokenInvalid() *AppError {
	return sentinel(ErrTokenInvalid, "TOKEN_INVALID", "invalid token", http.StatusUnauthorized)
}

func RateLimited() *AppError {
	return sentinel(ErrRateLimited, "RATE_LIMITED", "too many requests, slow down", http.StatusTooManyRequests)
}

// Is and As re-export the stdlib helpers so callers only import this package

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
