// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services attach a code; the HTTP layer maps codes to status codes in
// one place and never leaks wrapped internal error text to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalid      Code = "invalid"       // validation failed
	CodeUnauthorized Code = "unauthorized"  // missing/bad credentials or token
	CodeForbidden    Code = "forbidden"     // authenticated but not allowed
	CodeNotFound     Code = "not found"
	CodeConflict     Code = "conflict"      // unique-constraint violation
	CodeInternal     Code = "internal error"
)

type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// CodeOf extracts the code from err, or CodeInternal for untagged errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Message returns the client-facing message for err. Untagged errors collapse
// to a generic message so internals never reach the response body.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error to the HTTP status code for its taxonomy entry.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalid:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
