package engine

import (
	"errors"
	"fmt"
	"time"
)

// Kind tags every failure an engine operation can return.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnauthenticated Kind = "unauthenticated"
	KindValidation      Kind = "validation"
	KindSelfFollow      Kind = "self_follow"
	KindRateLimited     Kind = "rate_limited"
	KindConflict        Kind = "conflict"
	KindUnavailable     Kind = "unavailable"
)

// Error is the only error type engine operations return.
type Error struct {
	Kind    Kind
	Message string
	// RetryAfter is set for KindRateLimited.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindUnavailable {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, so errors.Is(err, ErrNotFound) works for any
// not-found error. A self-follow error is also a validation error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == t.Kind {
		return true
	}
	return e.Kind == KindSelfFollow && t.Kind == KindValidation
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (e *Error) RetryAfterSeconds() int {
	s := int(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		s++
	}
	return s
}

// Sentinels for errors.Is.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrSelfFollow      = &Error{Kind: KindSelfFollow}
	ErrRateLimited     = &Error{Kind: KindRateLimited}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrUnavailable     = &Error{Kind: KindUnavailable}
)

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthenticated() error {
	return &Error{Kind: KindUnauthenticated, Message: "login required"}
}

func rateLimited(remaining time.Duration) error {
	e := &Error{Kind: KindRateLimited, RetryAfter: remaining}
	e.Message = fmt.Sprintf("please wait %d seconds before commenting again", e.RetryAfterSeconds())
	return e
}

// KindOf returns the kind of err, or KindUnavailable for anything that is
// not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}
