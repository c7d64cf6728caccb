package nodes

import (
	"errors"
	"fmt"
)

// ErrorKind classifies navigation failures.
type ErrorKind string

const (
	ErrNoChildren        ErrorKind = "no-children"
	ErrNextInvalid       ErrorKind = "next-invalid"
	ErrPreviousInvalid   ErrorKind = "previous-invalid"
	ErrNextUndefined     ErrorKind = "next-undefined"
	ErrPreviousUndefined ErrorKind = "previous-undefined"
	ErrNullChild         ErrorKind = "null-child"
	ErrMalformedDesktop  ErrorKind = "malformed-desktop"
	ErrMissingKeyboard   ErrorKind = "missing-keyboard"
)

// Error is a tagged navigation error. Recoverable errors are answered by
// moving focus to any valid node; fatal ones mean the tree root is unusable
// and the caller should wait for the next external signal.
type Error struct {
	Kind        ErrorKind
	Recoverable bool
	Detail      string
}

func newError(kind ErrorKind, recoverable bool, format string, args ...any) *Error {
	return &Error{Kind: kind, Recoverable: recoverable, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	severity := "fatal"
	if e.Recoverable {
		severity = "recoverable"
	}
	if e.Detail == "" {
		return fmt.Sprintf("nodes: %s (%s)", e.Kind, severity)
	}
	return fmt.Sprintf("nodes: %s (%s): %s", e.Kind, severity, e.Detail)
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works as a kind test.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf returns the kind of a navigation error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRecoverable reports whether err is a recoverable navigation error.
func IsRecoverable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Recoverable
}

// IsFatal reports whether err is a fatal navigation error.
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && !e.Recoverable
}
