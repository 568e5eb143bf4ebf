package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInvalidTransition
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidTransition:
		return "INVALID_TRANSITION"
	case KindUpstream:
		return "UPSTREAM"
	default:
		return "UNKNOWN"
	}
}

// Error carries the taxonomy kind plus the operation that failed.
type Error struct {
	Kind      Kind
	Op        string
	Message   string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a persistence or broker failure. Deadline and cancellation
// errors are marked retryable so callers can offer a retry instead of hanging.
func Upstream(op string, err error) *Error {
	return &Error{
		Kind:      KindUpstream,
		Op:        op,
		Err:       err,
		Retryable: errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled),
	}
}

func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

func IsRetryable(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Retryable
}

// Message returns the user-facing part of err without the operation prefix.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}
