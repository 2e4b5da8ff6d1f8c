// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"encoding/json"
)

// Store is an insertion-ordered mapping from string keys to JSON-compatible
// values (string, bool, float64 or nil). It is the in-memory backing for a
// config file's contents. Not safe for concurrent use; each instance belongs
// to a single caller.
type Store struct {
	keys   []string
	values map[string]any
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: map[string]any{}}
}

// FromMap returns a Store populated from a plain map. Keys are inserted in the
// order given by keys; any map key not listed is appended afterward in
// unspecified order.
func FromMap(m map[string]any, keys []string) *Store {
	s := New()
	for _, k := range keys {
		if v, ok := m[k]; ok {
			s.Set(k, v)
		}
	}
	for k, v := range m {
		if !s.Has(k) {
			s.Set(k, v)
		}
	}
	return s
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set stores value under key. A key set for the first time is appended to the
// iteration order; re-setting an existing key keeps its position.
func (s *Store) Set(key string, value any) {
	if !s.Has(key) {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	if !s.Has(key) {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Entries calls fn for each key/value pair in insertion order. Iteration stops
// if fn returns false.
func (s *Store) Entries(fn func(key string, value any) bool) {
	for _, k := range s.keys {
		if !fn(k, s.values[k]) {
			return
		}
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.keys)
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.keys = nil
	s.values = map[string]any{}
}

// ToMap returns the contents as a plain map suitable for JSON serialization.
func (s *Store) ToMap() map[string]any {
	out := make(map[string]any, len(s.keys))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
// encoding/json would otherwise sort map keys alphabetically.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndentJSON returns the contents as two-space indented JSON with a
// trailing newline, suitable for writing to disk.
func (s *Store) MarshalIndentJSON() ([]byte, error) {
	compact, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// SetAll replaces the contents with the given map, inserted in keys order as
// with FromMap.
func (s *Store) SetAll(m map[string]any, keys []string) {
	s.Clear()
	for _, k := range keys {
		if v, ok := m[k]; ok {
			s.Set(k, v)
		}
	}
	for k, v := range m {
		if !s.Has(k) {
			s.Set(k, v)
		}
	}
}
