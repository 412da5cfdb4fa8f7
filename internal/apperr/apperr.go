package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindDuplicateIdentity
	KindAuthFailed
	KindUnauthorized
	KindNotFound
	KindOTPInvalid
	KindAlreadyVerified
)

// Error is a kind-tagged error raised by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error while keeping it unwrappable.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Untagged errors are
// reported as unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// MessageOf returns the caller-facing message of a tagged error, or a
// generic one for untagged errors so internals never leak outward.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
