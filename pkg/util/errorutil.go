package util

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Stable machine-readable error codes carried in every error envelope.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeBindError       = "BIND_ERROR"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeAuthRequired    = "AUTH_401"
	CodeAccessDenied    = "AUTH_403"
	CodeInternalError   = "INTERNAL_ERROR"
)

// FieldError describes a single failing field of a client request.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// AppError standardizes application errors into the shape the response
// normalizer needs: code, status, user-safe message, optional field detail
// and optional request path. Err holds the internal cause, which is logged
// but never returned to the client.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     []FieldError
	Path       string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError constructs an AppError for a domain-specific failure kind.
func NewError(code, message string, status int) error {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string) error {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError reports declarative field-validation failure.
func NewValidationError(fields []FieldError) error {
	return &AppError{
		Code:       CodeValidationError,
		Message:    "request validation failed",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// NewBindError reports request payload or parameter binding failure.
func NewBindError(fields []FieldError, cause error) error {
	return &AppError{
		Code:       CodeBindError,
		Message:    "request could not be bound",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
		Err:        cause,
	}
}

// NewPayloadTooLarge reports a request body over the configured limit.
func NewPayloadTooLarge() error {
	return &AppError{
		Code:       CodeFileTooLarge,
		Message:    "request payload too large",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// NewAuthenticationRequired reports an anonymous request to a protected path.
func NewAuthenticationRequired(path string) error {
	return &AppError{
		Code:       CodeAuthRequired,
		Message:    "authentication required",
		HTTPStatus: http.StatusUnauthorized,
		Path:       path,
	}
}

// NewAccessDenied reports an authenticated request lacking the required role.
func NewAccessDenied(path string) error {
	return &AppError{
		Code:       CodeAccessDenied,
		Message:    "access denied",
		HTTPStatus: http.StatusForbidden,
		Path:       path,
	}
}

// NewInternalError wraps an unhandled fault. The cause is kept for the
// operator log; the client sees only the generic message.
func NewInternalError(err error) error {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToAppError is the terminal mapping every error passes through before a
// response is written. Anything unrecognized becomes an internal error.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		if ae, ok := NewValidationError(fieldErrorsFrom(validationErrs)).(*AppError); ok {
			return ae
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case http.StatusRequestEntityTooLarge:
			if ae, ok := NewPayloadTooLarge().(*AppError); ok {
				return ae
			}
		case http.StatusBadRequest:
			if ae, ok := NewBindError(nil, fiberErr).(*AppError); ok {
				return ae
			}
		case http.StatusNotFound:
			return &AppError{Code: "NOT_FOUND", Message: "resource not found", HTTPStatus: http.StatusNotFound}
		case http.StatusMethodNotAllowed:
			return &AppError{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed", HTTPStatus: http.StatusMethodNotAllowed}
		}
	}

	if ae, ok := NewInternalError(err).(*AppError); ok {
		return ae
	}
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
