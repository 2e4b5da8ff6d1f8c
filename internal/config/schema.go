// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/url"
	"regexp"
	"sync"

	"github.com/forcekit/forcekit/internal/messages"
)

// Allowed property keys.
const (
	KeyInstanceURL           = "instanceUrl"
	KeyAPIVersion            = "apiVersion"
	KeyDefaultDevHubUsername = "defaultdevhubusername"
	KeyDefaultUsername       = "defaultusername"
	KeyISVDebuggerSID        = "isvDebuggerSid"
	KeyISVDebuggerURL        = "isvDebuggerUrl"
	KeyRestDeploy            = "restDeploy"
	KeyUseBackupPolling      = "useBackupPolling"
)

// Validator checks a candidate value for a property. FailedMessage is the
// property-specific text surfaced on rejection.
type Validator struct {
	Validate      func(value any) bool
	FailedMessage string
}

// PropertyMeta describes one allowed config property. Hidden properties are
// omitted from default list output; Encrypted properties are persisted as
// ciphertext and held as plaintext in memory.
type PropertyMeta struct {
	Key       string
	Input     *Validator
	Hidden    bool
	Encrypted bool
}

// Schema is the immutable set of allowed properties for a Config. Build it
// once and inject it; there is no process-wide mutable registry.
type Schema struct {
	props []PropertyMeta
	index map[string]PropertyMeta
}

// NewSchema builds a Schema from the given properties.
func NewSchema(props ...PropertyMeta) Schema {
	index := make(map[string]PropertyMeta, len(props))
	for _, p := range props {
		index[p.Key] = p
	}
	return Schema{props: props, index: index}
}

// Properties returns the schema's properties in declaration order.
func (s Schema) Properties() []PropertyMeta {
	out := make([]PropertyMeta, len(s.props))
	copy(out, s.props)
	return out
}

// Get returns the meta for key and whether the key is allowed.
func (s Schema) Get(key string) (PropertyMeta, bool) {
	p, ok := s.index[key]
	return p, ok
}

func (s Schema) initialized() bool {
	return s.index != nil
}

var apiVersionRE = regexp.MustCompile(`^[1-9]\d*\.0$`)

// DefaultSchema returns the fixed set of properties the CLI understands. The
// value is built once and reused; PropertyMeta values are copied out on
// access, so callers cannot mutate it.
var DefaultSchema = sync.OnceValue(func() Schema {
	return NewSchema(
		PropertyMeta{
			Key: KeyInstanceURL,
			Input: &Validator{
				Validate:      isLoginURL,
				FailedMessage: messages.Get("config", "invalidInstanceUrl"),
			},
		},
		PropertyMeta{
			Key:    KeyAPIVersion,
			Hidden: true,
			Input: &Validator{
				Validate: func(v any) bool {
					s, ok := v.(string)
					return ok && apiVersionRE.MatchString(s)
				},
				FailedMessage: messages.Get("config", "invalidApiVersion"),
			},
		},
		PropertyMeta{Key: KeyDefaultDevHubUsername},
		PropertyMeta{Key: KeyDefaultUsername},
		PropertyMeta{Key: KeyISVDebuggerSID, Encrypted: true},
		PropertyMeta{Key: KeyISVDebuggerURL},
		PropertyMeta{
			Key:    KeyRestDeploy,
			Hidden: true,
			Input: &Validator{
				Validate:      isBooleanString,
				FailedMessage: messages.Get("config", "invalidBooleanValue"),
			},
		},
		PropertyMeta{
			Key: KeyUseBackupPolling,
			Input: &Validator{
				Validate:      isBooleanString,
				FailedMessage: messages.Get("config", "invalidBooleanValue"),
			},
		},
	)
})

// isLoginURL accepts well-formed http/https URLs.
func isLoginURL(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isBooleanString accepts a bool or the strings "true"/"false".
func isBooleanString(v any) bool {
	switch t := v.(type) {
	case bool:
		return true
	case string:
		return t == "true" || t == "false"
	default:
		return false
	}
}
