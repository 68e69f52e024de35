// Package apperr defines the error taxonomy shared by the logic layer and
// the HTTP controllers. Every client-visible failure is an *Error carrying
// the HTTP status to map it to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string, detail interface{}) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%s not found: %v", what, detail))
}

func PermissionDenied(msg string) *Error {
	return New(http.StatusForbidden, "permission_denied", errors.New(msg))
}

func QuotaExceeded(msg string) *Error {
	return New(http.StatusTooManyRequests, "quota_exceeded", errors.New(msg))
}

func InvalidArgument(msg string) *Error {
	return New(http.StatusBadRequest, "invalid_argument", errors.New(msg))
}

func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", errors.New(msg))
}

func Configuration(msg string) *Error {
	return New(http.StatusInternalServerError, "configuration_error", errors.New(msg))
}

// CodeOf extracts the taxonomy code from err, or "" if err is not an *Error.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// StatusOf maps err to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
