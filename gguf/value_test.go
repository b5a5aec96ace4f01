package gguf

import "testing"

func TestValueScalarAccessors(t *testing.T) {
	if got := Int16Value(-300).Int(); got != -300 {
		t.Errorf("Expected -300, got %d", got)
	}
	if got := Uint16Value(65535).Uint(); got != 65535 {
		t.Errorf("Expected 65535, got %d", got)
	}
	if got := Float64Value(0.125).Float(); got != 0.125 {
		t.Errorf("Expected 0.125, got %f", got)
	}
	if got := Float32Value(-2.5).Float(); got != -2.5 {
		t.Errorf("Expected -2.5, got %f", got)
	}
	if !BoolValue(true).Bool() || BoolValue(false).Bool() {
		t.Errorf("Boolean accessors broken")
	}
	if got := StringValue("gguf").String(); got != "gguf" {
		t.Errorf("Expected gguf, got %q", got)
	}
}

func TestValueKindMismatchReturnsZero(t *testing.T) {
	v := StringValue("not a number")
	if v.Int() != 0 || v.Uint() != 0 || v.Float() != 0 || v.Bool() {
		t.Errorf("Expected zero values for kind mismatch")
	}
	if Uint8Value(7).String() != "" {
		t.Errorf("Expected empty string for non-string value")
	}
	// signed and unsigned do not cross over
	if Int32Value(-5).Uint() != 0 {
		t.Errorf("Expected Uint of signed value to be 0")
	}
	if Uint32Value(5).Int() != 0 {
		t.Errorf("Expected Int of unsigned value to be 0")
	}
}

func TestValueArrayAccessors(t *testing.T) {
	v := ArrayValue(TypeInt32, []Value{Int32Value(-1), Int32Value(0), Int32Value(7)})

	if v.Type() != TypeArray || v.Elem() != TypeInt32 || v.Len() != 3 {
		t.Fatalf("Unexpected array shape: %s of %s len %d", v.Type(), v.Elem(), v.Len())
	}
	if got := v.Index(2).Int(); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}

	ints := v.Ints()
	if len(ints) != 3 || ints[0] != -1 {
		t.Errorf("Unexpected Ints: %v", ints)
	}
	// a signed array is not an unsigned, float, or string array
	if v.Uints() != nil || v.Floats() != nil || v.Strings() != nil || v.Bools() != nil {
		t.Errorf("Expected nil for mismatched array accessors")
	}
}

func TestValueNonArrayHasNoElements(t *testing.T) {
	v := Uint32Value(9)
	if v.Len() != 0 || v.Elem() != 0 || v.Values() != nil {
		t.Errorf("Expected scalar to expose no array shape")
	}
}

func TestValueTypeString(t *testing.T) {
	if TypeFloat32.String() != "float32" {
		t.Errorf("Expected float32, got %s", TypeFloat32.String())
	}
	if ValueType(42).String() != "unknown(42)" {
		t.Errorf("Expected unknown(42), got %s", ValueType(42).String())
	}
}
