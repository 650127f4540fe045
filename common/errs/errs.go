package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

func BadRequest(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *HttpError {
	return &HttpError{Code: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Message: message}
}

func NotFound(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message}
}

func Conflict(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message}
}

var (
	ErrNotConfigured = errors.New("integration not configured")
	ErrInvalidUserID = errors.New("invalid LINE user id")
)
