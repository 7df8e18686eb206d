package model

import (
	"encoding/json"
	"testing"
)

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
		ok   bool
	}{
		{"string", String("open"), "open", true},
		{"integer number", Number(5), "5", true},
		{"fractional number", Number(2.5), "2.5", true},
		{"bool true", Bool(true), "true", true},
		{"bool false", Bool(false), "false", true},
		{"null", Null(), "", false},
		{"list", List(String("a")), "", false},
		{"map", Map(NewAttrMap()), "", false},
	}

	for _, tt := range tests {
		got, ok := tt.val.CoerceString()
		if ok != tt.ok {
			t.Errorf("%s: expected ok=%v, got %v", tt.name, tt.ok, ok)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestCoerceNumber(t *testing.T) {
	if f, ok := Number(3.5).CoerceNumber(); !ok || f != 3.5 {
		t.Errorf("Number(3.5): expected 3.5, got %v (ok=%v)", f, ok)
	}
	if f, ok := String("42").CoerceNumber(); !ok || f != 42 {
		t.Errorf("String(\"42\"): expected 42, got %v (ok=%v)", f, ok)
	}
	if _, ok := String("high").CoerceNumber(); ok {
		t.Error("String(\"high\") should not coerce to a number")
	}
	if _, ok := Bool(true).CoerceNumber(); ok {
		t.Error("Bool should not coerce to a number")
	}
	if _, ok := Null().CoerceNumber(); ok {
		t.Error("Null should not coerce to a number")
	}
}

func TestValueEqual(t *testing.T) {
	if !Number(5).Equal(Number(5)) {
		t.Error("Equal numbers should compare equal")
	}
	if Number(5).Equal(String("5")) {
		t.Error("Equal compares kinds strictly, number != string")
	}
	if !List(String("a"), Number(1)).Equal(List(String("a"), Number(1))) {
		t.Error("Equal lists should compare equal")
	}
	if List(String("a")).Equal(List(String("a"), String("b"))) {
		t.Error("Lists of different length should not compare equal")
	}

	m1 := NewAttrMap()
	m1.Set("k", String("v"))
	m2 := NewAttrMap()
	m2.Set("k", String("v"))
	if !Map(m1).Equal(Map(m2)) {
		t.Error("Equal maps should compare equal")
	}
}

func TestFromAny(t *testing.T) {
	if v := FromAny(nil); !v.IsNull() {
		t.Error("FromAny(nil) should be null")
	}
	if v := FromAny(7); v.Kind() != KindNumber {
		t.Errorf("FromAny(int): expected KindNumber, got %v", v.Kind())
	}
	if v := FromAny(json.Number("1.5")); v.Kind() != KindNumber {
		t.Errorf("FromAny(json.Number): expected KindNumber, got %v", v.Kind())
	}
	v := FromAny([]any{"a", 2})
	items, ok := v.ListValue()
	if !ok || len(items) != 2 {
		t.Fatalf("FromAny([]any): expected a 2-item list, got %v", v)
	}
	if s, _ := items[0].CoerceString(); s != "a" {
		t.Errorf("Expected first item \"a\", got %q", s)
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	input := `{"title":"Fix login","effort":3,"done":false,"tags":["auth","p1"],"owner":{"name":"sam","team":"web"}}`

	var v Value
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Object key order survives the round trip
	if string(out) != input {
		t.Errorf("Round trip changed document:\n in: %s\nout: %s", input, out)
	}
}
