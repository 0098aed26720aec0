// Package apperr defines the application error type rendered by the
// central HTTP error handler. Codes in the 4xx range serialize with
// status "fail", 5xx with status "error".
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Error struct {
	Code    int
	Message string
	Details map[string]any
	Err     error  // wrapped cause, never serialized outside development
	Stack   string // captured where the cause was wrapped
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message)
}

func Conflict(message string) *Error {
	return New(fiber.StatusConflict, message)
}

func Internal(message string, cause error) *Error {
	return &Error{
		Code:    fiber.StatusInternalServerError,
		Message: message,
		Err:     cause,
		Stack:   zap.Stack("stack").String,
	}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// From converts any error into an *Error, defaulting to an internal
// error for unrecognized ones.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &Error{Code: fe.Code, Message: fe.Message, Err: err}
	}
	return Internal("Something went wrong!", err)
}

// StatusWord maps an HTTP code onto the response envelope's status
// field.
func StatusWord(code int) string {
	if code >= 500 {
		return "error"
	}
	if code >= 400 {
		return "fail"
	}
	return "success"
}
