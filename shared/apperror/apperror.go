// Package apperror provides kind-tagged errors that cross the service
// boundary and are mapped to transport status codes by the handlers.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindDuplicateEmail     Kind = "EMAIL_ALREADY_TAKEN"
	KindPersistence        Kind = "PERSISTENCE"
	KindHashing            Kind = "HASHING"
)

// Error carries a kind, a message safe to show to API clients and an
// optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
