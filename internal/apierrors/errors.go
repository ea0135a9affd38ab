// Package apierrors defines the domain error taxonomy shared by services and
// the HTTP layer. Every error carries a machine-checkable kind plus a
// human-readable message; the transport maps kinds to status codes.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindPermission   Kind = "permission"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// HTTPStatus returns the status code a kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a kind and message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same kind, so callers can test categories
// with errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// Sentinels for errors.Is checks by kind.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrPermission   = &Error{Kind: KindPermission, Message: "forbidden"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
)

// Validation creates a validation (bad request) error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Unauthorized creates an authentication error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Permission creates a forbidden error.
func Permission(msg string) *Error {
	return &Error{Kind: KindPermission, Message: msg}
}

// NotFound creates a not-found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Constructors for errors the services raise in more than one place.

func NewErrListNotFound(id uuid.UUID) *Error {
	return NotFound(fmt.Sprintf("list %s not found", id))
}

func NewErrItemNotFound(id uuid.UUID) *Error {
	return NotFound(fmt.Sprintf("item %s not found", id))
}

func NewErrTargetUserNotFound() *Error {
	return NotFound("no user with that username or email")
}

func NewErrNotListOwner() *Error {
	return Permission("only the list owner can change who it is shared with")
}

func NewErrNoListAccess() *Error {
	return Permission("you do not have access to this list")
}
