// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	// KindValidation marks missing or invalid inputs caught before any
	// network call.
	KindValidation ErrorKind = "validation"

	// KindTransport marks a network failure or a non-2xx response whose
	// body could not be decoded.
	KindTransport ErrorKind = "transport"

	// KindService marks a non-2xx response carrying a decodable
	// {"error": ...} body.
	KindService ErrorKind = "service"

	// KindUnknown is the catch-all when neither bytes nor a structured
	// message are obtainable.
	KindUnknown ErrorKind = "unknown"
)

// Error is the single failure type surfaced by the pipeline. Message is
// always safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status code when a response was received.
	Status int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError returns a KindValidation error with the given message.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage extracts the user-facing message from err. Errors that are
// not *Error fall back to their Error() text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
