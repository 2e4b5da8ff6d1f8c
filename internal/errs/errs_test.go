// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := New(UnknownConfigKey, "unknown config key: bogus")
	assert.Equal(t, "UnknownConfigKey: unknown config key: bogus", err.Error())

	wrapped := Wrap(UnexpectedFormat, "bad file", errors.New("boom"))
	assert.Equal(t, "UnexpectedFormat: bad file: boom", wrapped.Error())
}

func TestHasName(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     string
		expected bool
	}{
		{
			name:     "direct match",
			err:      New(InvalidParameter, "missing filename"),
			kind:     InvalidParameter,
			expected: true,
		},
		{
			name:     "name mismatch",
			err:      New(InvalidParameter, "missing filename"),
			kind:     UnknownConfigKey,
			expected: false,
		},
		{
			name:     "match through fmt wrapping",
			err:      fmt.Errorf("outer: %w", New(TargetFileNotFound, "gone")),
			kind:     TargetFileNotFound,
			expected: true,
		},
		{
			name:     "match on inner of nested named errors",
			err:      Wrap(UnexpectedFormat, "outer", New(TargetFileNotFound, "inner")),
			kind:     TargetFileNotFound,
			expected: true,
		},
		{
			name:     "nil error",
			err:      nil,
			kind:     InvalidParameter,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			kind:     InvalidParameter,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasName(tt.err, tt.kind))
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(UnexpectedFormat, "outer", cause)
	assert.ErrorIs(t, err, cause)
}
