package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeAuthFailure      = "AUTH_FAILURE"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeTimeout          = "TIMEOUT"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeNotFound:         http.StatusNotFound,
	CodeValidation:       http.StatusBadRequest,
	CodeInvalidInput:     http.StatusBadRequest,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeAuthFailure:      http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeConflict:         http.StatusConflict,
	CodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	CodeUnsupportedMedia: http.StatusUnsupportedMediaType,
	CodeTimeout:          http.StatusGatewayTimeout,
	CodeUnavailable:      http.StatusServiceUnavailable,
	CodeInternal:         http.StatusInternalServerError,
}

// AppError is the error type every layer hands to the HTTP response writer.
// Code selects the status; Details is rendered next to the message.
type AppError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	err := NotFound(resource)
	err.Details = map[string]any{"resource": resource, "id": id}
	return err
}

func Validation(message string, details map[string]any) *AppError {
	err := newError(CodeValidation, message)
	err.Details = details
	return err
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

// AuthFailure is returned when presented credentials do not match.
func AuthFailure(message string) *AppError {
	return newError(CodeAuthFailure, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func PayloadTooLarge(message string) *AppError {
	return newError(CodePayloadTooLarge, message)
}

func UnsupportedMediaType(contentType string) *AppError {
	return newError(CodeUnsupportedMedia, "Unsupported Content-Type: "+contentType)
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message)
}

func Unavailable(service string) *AppError {
	return newError(CodeUnavailable, service+" is temporarily unavailable")
}

func Internal(message string, err error) *AppError {
	appErr := newError(CodeInternal, message)
	appErr.Err = err
	return appErr
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError finds the AppError in err's chain. Anything else is reported
// as an internal error wrapping err.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
