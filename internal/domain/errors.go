package domain

import (
	"errors"
	"net/http"
)

// Error codes for business logic errors.
const (
	CodeNotFound       = 1
	CodeValidation     = 2
	CodeInternal       = 3
	CodeNetwork        = 4
	CodeNotImplemented = 5
)

// AppError represents a business logic error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined business errors.
//
// Match categories with the Is* helpers rather than errors.Is: the helpers
// compare codes, so freshly built errors from NewAppError match as well.
var (
	ErrNotFound       = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrValidation     = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal       = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrNetwork        = &AppError{Code: CodeNetwork, Message: "network response was not ok"}
	ErrNotImplemented = &AppError{Code: CodeNotImplemented, Message: "not implemented"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewNetworkError wraps a transport or status failure of the remote search
// endpoint. The message is always the generic one; err is kept for logging.
func NewNetworkError(err error) *AppError {
	return NewAppError(CodeNetwork, ErrNetwork.Message, err)
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// IsNetwork reports whether err is or wraps an AppError with CodeNetwork.
func IsNetwork(err error) bool {
	return hasCode(err, CodeNetwork)
}

// IsNotImplemented reports whether err is or wraps an AppError with CodeNotImplemented.
func IsNotImplemented(err error) bool {
	return hasCode(err, CodeNotImplemented)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// Errors that are not *AppError map to http.StatusInternalServerError.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeValidation:
			return http.StatusBadRequest
		case CodeInternal:
			return http.StatusInternalServerError
		case CodeNetwork:
			return http.StatusBadGateway
		case CodeNotImplemented:
			return http.StatusNotImplemented
		}
	}
	return http.StatusInternalServerError
}
