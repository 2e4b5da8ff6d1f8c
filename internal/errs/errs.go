// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"errors"
	"fmt"
)

// Kind names surfaced by the configuration subsystem. Callers match on these
// with HasName rather than on message text.
const (
	InvalidType        = "InvalidType"
	InvalidParameter   = "InvalidParameter"
	UnexpectedFormat   = "UnexpectedFormat"
	UnknownConfigKey   = "UnknownConfigKey"
	InvalidConfigValue = "InvalidConfigValue"
	TargetFileNotFound = "TargetFileNotFound"
	NoProjectFound     = "NoProjectFound"
	InvalidSchema      = "InvalidSchema"
)

// Error is a named error. The Name identifies the kind for programmatic
// handling; Message is the human-readable (localized) text.
type Error struct {
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a named error with the given message.
func New(name, message string) error {
	return &Error{Name: name, Message: message}
}

// Wrap returns a named error wrapping a cause.
func Wrap(name, message string, err error) error {
	return &Error{Name: name, Message: message, Err: err}
}

// HasName reports whether err or anything it wraps is a named error with the
// given name.
func HasName(err error, name string) bool {
	for err != nil {
		var ne *Error
		if errors.As(err, &ne) {
			if ne.Name == name {
				return true
			}
			err = ne.Err
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}
