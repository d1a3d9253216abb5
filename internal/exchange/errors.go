package exchange

import (
	"errors"
	"fmt"
)

// Error classification drives cycle behavior: auth failures are fatal for the
// run, transient failures abandon the cycle until the next tick, application
// errors are surfaced with the exchange's message and never retried.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindTransient
	KindApplication
)

// Error is any classified exchange failure.
type Error struct {
	Kind    ErrorKind
	Op      string // e.g. "placeOrder"
	Code    string // exchange status code when present
	Message string // exchange message, verbatim
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: [%s] %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func NewAuthError(op, code, msg string) *Error {
	return &Error{Kind: KindAuth, Op: op, Code: code, Message: msg}
}

func NewTransientError(op string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// NewApplicationError preserves the exchange-reported code and message
// verbatim; a non-success body status is an application error even when the
// transport returned HTTP 200.
func NewApplicationError(op, code, msg string) *Error {
	return &Error{Kind: KindApplication, Op: op, Code: code, Message: msg}
}

func IsAuth(err error) bool        { return kindOf(err) == KindAuth }
func IsTransient(err error) bool   { return kindOf(err) == KindTransient }
func IsApplication(err error) bool { return kindOf(err) == KindApplication }

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classifyStatus maps an HTTP status with no parseable body. 401/403 are
// credential problems; 5xx and 429 are retryable at the next tick.
func classifyStatus(op string, status int, body string) *Error {
	switch {
	case status == 401 || status == 403:
		return NewAuthError(op, fmt.Sprint(status), body)
	case status >= 500 || status == 429:
		return NewTransientError(op, fmt.Errorf("http %d: %s", status, body))
	default:
		return NewApplicationError(op, fmt.Sprint(status), body)
	}
}
