// Package apperr defines the tagged error type returned across the service
// boundary. Callers branch on the Kind instead of inspecting messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTransient
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrTransient    = &Error{Kind: KindTransient}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "phone_numbers.create".
	Op string
	// Detail is safe to show to an operator.
	Detail string
	// Fields holds per-field validation messages.
	Fields map[string]string
	// Err is the underlying cause. Never shown to users.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", k, e.Fields[k])
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Detail == "" && t.Err == nil && t.Fields == nil && t.Kind == e.Kind
}

// Validation returns a validation error with optional per-field messages.
func Validation(op, detail string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Op: op, Detail: detail, Fields: fields}
}

// NotFound returns a not-found error.
func NotFound(op, detail string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Detail: detail}
}

// Conflict returns a uniqueness conflict error.
func Conflict(op, detail string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Detail: detail, Err: err}
}

// Transient wraps a storage or network failure.
func Transient(op string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Detail: "temporarily unavailable", Err: err}
}

// Unauthorized returns an authentication failure.
func Unauthorized(op, detail string) *Error {
	return &Error{Kind: KindUnauthorized, Op: op, Detail: detail}
}

// Forbidden returns an authorization failure.
func Forbidden(op, detail string) *Error {
	return &Error{Kind: KindForbidden, Op: op, Detail: detail}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Retryable reports whether repeating the operation may succeed.
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}

// FieldsOf returns the per-field validation messages carried by err.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message returns a user-facing message for err. Causes are never exposed.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case KindTransient:
		return "service temporarily unavailable, please try again"
	case KindInternal:
		return "internal error"
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.String()
}

// HTTPStatus maps err to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
