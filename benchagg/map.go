// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"bytes"
	"encoding/json"
)

// A Map is a string-keyed map that remembers the order in which keys
// were first inserted. Setting an existing key replaces its value
// without moving the key. A Map encodes as a JSON object whose
// members appear in insertion order.
//
// The zero Map is empty and ready to use.
type Map[V any] struct {
	keys []string
	vals map[string]V
}

// Len returns the number of keys in m.
func (m *Map[V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys of m in insertion order.
func (m *Map[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under key and whether it was present.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set stores v under key.
func (m *Map[V]) Set(key string, v V) {
	if m.vals == nil {
		m.vals = make(map[string]V)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// GetOrInit returns the value stored under key. If key is absent, it
// first stores init() under key.
func (m *Map[V]) GetOrInit(key string, init func() V) V {
	if v, ok := m.vals[key]; ok {
		return v
	}
	v := init()
	m.Set(key, v)
	return v
}

// MarshalJSON implements json.Marshaler. Keys and values are
// written without HTML escaping, so names such as "a<b>" come out as
// they were read.
func (m Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(m.vals[k]); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline removes the newline json.Encoder writes after a value.
func trimNewline(buf *bytes.Buffer) {
	if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
}
