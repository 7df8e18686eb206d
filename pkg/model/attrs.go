package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AttrMap is an insertion-ordered map of attribute keys to Values.
// Nested maps are addressed with dotted paths (e.g. "properties.effort").
type AttrMap struct {
	keys []string
	vals map[string]Value
}

// NewAttrMap creates an empty attribute map
func NewAttrMap() *AttrMap {
	return &AttrMap{vals: make(map[string]Value)}
}

// Set stores a value under key, preserving the position of existing keys
func (m *AttrMap) Set(key string, v Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored directly under key
func (m *AttrMap) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of top-level keys
func (m *AttrMap) Len() int {
	return len(m.keys)
}

// Keys returns the top-level keys in insertion order
func (m *AttrMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Resolve looks up a dotted path through nested maps. A path segment that
// lands on a non-map value short-circuits to not found.
func (m *AttrMap) Resolve(path string) (Value, bool) {
	if m == nil || path == "" {
		return Null(), false
	}

	current := m
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		v, ok := current.Get(seg)
		if !ok {
			return Null(), false
		}
		if i == len(segments)-1 {
			return v, true
		}
		nested, ok := v.MapValue()
		if !ok {
			return Null(), false
		}
		current = nested
	}
	return Null(), false
}

// Clone returns a deep copy of the map
func (m *AttrMap) Clone() *AttrMap {
	if m == nil {
		return nil
	}
	out := NewAttrMap()
	for _, k := range m.keys {
		v := m.vals[k]
		if nested, ok := v.MapValue(); ok {
			v = Map(nested.Clone())
		}
		out.Set(k, v)
	}
	return out
}

// Equal reports whether two maps hold the same keys and values in the
// same order
func (m *AttrMap) Equal(o *AttrMap) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !m.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the map as a JSON object in insertion order
func (m *AttrMap) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := m.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, keeping keys in document order
func (m *AttrMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes must be a JSON object, got %v", tok)
	}
	m.keys = nil
	m.vals = make(map[string]Value)
	return decodeObject(dec, m)
}
