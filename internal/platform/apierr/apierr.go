package apierr

import (
	"errors"
	"fmt"
)

// Error carries the HTTP status and machine-readable code a handler should
// respond with. Err is the human-readable cause and may be nil.
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

// Resolve unwraps err into the status/code/cause triple handlers respond with,
// using the fallbacks when err carries no *Error.
func Resolve(err error, fallbackStatus int, fallbackCode string) (int, string, error) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		status := ae.Status
		if status == 0 {
			status = fallbackStatus
		}
		code := ae.Code
		if code == "" {
			code = fallbackCode
		}
		if ae.Err == nil {
			return status, code, ae
		}
		return status, code, ae.Err
	}
	return fallbackStatus, fallbackCode, err
}
