package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the variant stored in a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a tagged-variant attribute value: string, number, bool, list,
// or nested attribute map. The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   float64
	b     bool
	list  []Value
	attrs *AttrMap
}

// Null returns the null value
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a string value
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a list value
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Map returns a nested-map value
func Map(m *AttrMap) Value {
	return Value{kind: KindMap, attrs: m}
}

// Kind returns the variant tag
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// ListValue returns the list items, or false for other kinds
func (v Value) ListValue() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// MapValue returns the nested map, or false for other kinds
func (v Value) MapValue() (*AttrMap, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.attrs, true
}

// CoerceString returns the scalar value rendered as a string.
// Lists, maps, and null do not coerce.
func (v Value) CoerceString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// CoerceNumber returns the value as a float64. Numbers coerce directly,
// strings coerce when they parse as a number. Everything else does not.
func (v Value) CoerceNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports deep equality between two values
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.attrs.Equal(o.attrs)
	}
	return false
}

// FromAny converts a native Go value to a Value. Supported inputs are
// strings, numeric types, bools, nil, []any, and map-shaped values
// already expressed as *AttrMap. Unsupported types become their
// fmt-rendered string.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			items = append(items, FromAny(it))
		}
		return List(items...)
	case *AttrMap:
		return Map(t)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// MarshalJSON renders the value as its native JSON form
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		buf := bytes.Buffer{}
		buf.WriteByte('[')
		for i, it := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := it.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMap:
		return v.attrs.MarshalJSON()
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON parses any JSON value into the matching variant
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// decodeValue reads one JSON value from the decoder. Object keys are kept
// in document order.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewAttrMap()
			if err := decodeObject(dec, m); err != nil {
				return Null(), err
			}
			return Map(m), nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, item)
			}
			// consume closing bracket
			if _, err := dec.Token(); err != nil {
				return Null(), err
			}
			return List(items...), nil
		}
		return Null(), fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Null(), fmt.Errorf("unexpected token %v", tok)
}

// decodeObject reads key/value pairs into m until the closing brace
func decodeObject(dec *json.Decoder, m *AttrMap) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		m.Set(key, val)
	}
	// consume closing brace
	_, err := dec.Token()
	return err
}
