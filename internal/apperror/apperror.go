// Package apperror defines the error kinds returned by the API and their HTTP mapping.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies a DomainError
type Kind string

// Error kinds
const (
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// DomainError carries a client facing message, the wrapped cause and the
// stack captured where it was created.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *DomainError) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New creates a DomainError of the given kind.
func New(kind Kind, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		var ge *goerrors.Error
		if errors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Validation(message string) *DomainError {
	return New(KindValidation, message, nil)
}

func Unauthorized(message string, err error) *DomainError {
	return New(KindUnauthorized, message, err)
}

func Forbidden(message string) *DomainError {
	return New(KindForbidden, message, nil)
}

func NotFound(message string) *DomainError {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) *DomainError {
	return New(KindConflict, message, nil)
}

func Internal(message string, err error) *DomainError {
	return New(KindInternal, message, err)
}

// From converts any error into a DomainError. Errors that are not already
// domain errors become Internal.
func From(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return Internal("Something went wrong on the server!", err)
}
