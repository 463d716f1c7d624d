package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AppError carries the HTTP status and optional machine code for a failure
// that is safe to show to the caller.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func BadRequest(msg string) *AppError      { return newAppError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *AppError    { return newAppError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *AppError       { return newAppError(http.StatusForbidden, msg) }
func NotFound(msg string) *AppError        { return newAppError(http.StatusNotFound, msg) }
func TooManyRequests(msg string) *AppError { return newAppError(http.StatusTooManyRequests, msg) }
func Unavailable(msg string) *AppError     { return newAppError(http.StatusServiceUnavailable, msg) }

func Conflict(msg, code string) *AppError {
	e := newAppError(http.StatusConflict, msg)
	e.Code = code
	return e
}

// Internal wraps err so it is logged in full but reported with msg only.
func Internal(msg string, err error) *AppError {
	e := newAppError(http.StatusInternalServerError, msg)
	e.Err = err
	return e
}

// ErrEmailExists is returned by repositories on a duplicate email.
var ErrEmailExists = Conflict(EMAIL_ALREADY_REGISTERED, EMAIL_EXISTS)

/*
* Walk the chain for an AppError and use its status
* Binding failures from the validator are 400
* Everything else is 500
 */
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ValidationMessage turns binding errors into "field is required" style text.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}

// BindError reports a failed request bind as a 400.
func BindError(err error) *AppError {
	e := BadRequest(ValidationMessage(err))
	e.Err = err
	return e
}
