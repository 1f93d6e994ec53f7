// Package errors provides error values that can wrap another error
// without going through fmt.Errorf("%w", err).
//
// It is primarily used to declare sentinel errors that remain
// matchable with errors.Is after call sites add a cause.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New builds an Error with a fixed message
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is an error with a message and an optional wrapped cause.
//
// Wrapping preserves the original sentinel: errors.Is matches the
// sentinel itself, not only the wrapped cause.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap the cause
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a cause under this error. A new Error is returned so sentinels
// declared as package variables are never mutated by call sites.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// WrapMessage wraps a cause and appends extra context to the message
func (e *Error) WrapMessage(err error, msg string) *Error {
	return &Error{msg: e.msg + ": " + msg, err: err}
}

// Is reports whether this error matches the target
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	return ok && e.msg == t.msg
}

// As is a shortcut to the standard library errors.As
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is is a shortcut to the standard library errors.Is
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
