// Package tmerr defines the error kinds surfaced by team matching operations.
// Every failure returned across a package boundary is an *Error so callers can
// switch on Kind instead of matching message text.
package tmerr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindNotFound         Kind = "not_found"
	KindUnauthorized     Kind = "unauthorized"
	KindConflict         Kind = "conflict"
	KindDuplicateRequest Kind = "duplicate_request"
	KindSelfRequest      Kind = "self_request"
	KindAlreadyMember    Kind = "already_member"
	KindInvalidState     Kind = "invalid_state"
	KindInternal         Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to cause. A nil cause yields nil.
func Wrap(cause error, kind Kind, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}

	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

func Validation(format string, args ...interface{}) error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return New(KindNotFound, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return New(KindUnauthorized, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return New(KindConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) error {
	return New(KindInvalidState, format, args...)
}

// Internal wraps an unexpected storage or runtime failure. Errors that already carry a
// kind are passed through untouched so the original classification survives.
func Internal(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}

	var e *Error
	if errors.As(cause, &e) {
		return cause
	}

	return Wrap(cause, KindInternal, format, args...)
}

// KindOf returns the kind of err, or KindInternal for errors without one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user facing message of err. Internal details are hidden.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}

	return "internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindSelfRequest, KindInvalidState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindDuplicateRequest, KindAlreadyMember:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
