package gguf

import "math"

// Value is a metadata value: one scalar of the twelve primitive kinds, a
// string, or a homogeneous array (possibly of nested arrays). It is a closed
// tagged union; the tag always matches the wire type the value was decoded
// from, and string and array payloads are owned copies, so a Value stays
// valid after the source stream is gone.
type Value struct {
	typ  ValueType
	num  uint64    // scalar payload bits (integers widened, floats via IEEE bits)
	str  string    // TypeString payload
	elem ValueType // element type when typ == TypeArray
	arr  []Value   // array elements, all of type elem
}

// Uint8Value returns a TypeUint8 scalar
func Uint8Value(v uint8) Value { return Value{typ: TypeUint8, num: uint64(v)} }

// Int8Value returns a TypeInt8 scalar
func Int8Value(v int8) Value { return Value{typ: TypeInt8, num: uint64(uint8(v))} }

// Uint16Value returns a TypeUint16 scalar
func Uint16Value(v uint16) Value { return Value{typ: TypeUint16, num: uint64(v)} }

// Int16Value returns a TypeInt16 scalar
func Int16Value(v int16) Value { return Value{typ: TypeInt16, num: uint64(uint16(v))} }

// Uint32Value returns a TypeUint32 scalar
func Uint32Value(v uint32) Value { return Value{typ: TypeUint32, num: uint64(v)} }

// Int32Value returns a TypeInt32 scalar
func Int32Value(v int32) Value { return Value{typ: TypeInt32, num: uint64(uint32(v))} }

// Uint64Value returns a TypeUint64 scalar
func Uint64Value(v uint64) Value { return Value{typ: TypeUint64, num: v} }

// Int64Value returns a TypeInt64 scalar
func Int64Value(v int64) Value { return Value{typ: TypeInt64, num: uint64(v)} }

// Float32Value returns a TypeFloat32 scalar
func Float32Value(v float32) Value {
	return Value{typ: TypeFloat32, num: uint64(math.Float32bits(v))}
}

// Float64Value returns a TypeFloat64 scalar
func Float64Value(v float64) Value {
	return Value{typ: TypeFloat64, num: math.Float64bits(v)}
}

// BoolValue returns a TypeBool scalar
func BoolValue(v bool) Value {
	var n uint64
	if v {
		n = 1
	}
	return Value{typ: TypeBool, num: n}
}

// StringValue returns a TypeString value
func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

// ArrayValue returns a TypeArray value with the given element type. Every
// element must already have type elem; the decoder and encoder rely on arrays
// being homogeneous.
func ArrayValue(elem ValueType, elems []Value) Value {
	return Value{typ: TypeArray, elem: elem, arr: elems}
}

// Type returns the wire type tag of the value
func (v Value) Type() ValueType { return v.typ }

// Elem returns the element type of an array value, or 0 for non-arrays
func (v Value) Elem() ValueType {
	if v.typ != TypeArray {
		return 0
	}
	return v.elem
}

// Len returns the element count of an array value, or 0 for non-arrays
func (v Value) Len() int {
	if v.typ != TypeArray {
		return 0
	}
	return len(v.arr)
}

// Index returns the i'th element of an array value
func (v Value) Index(i int) Value { return v.arr[i] }

// Values returns the elements of an array value. If it is not an array, it
// returns nil. The returned slice is the value's backing storage; callers
// must not modify it.
func (v Value) Values() []Value {
	if v.typ != TypeArray {
		return nil
	}
	return v.arr
}

// Int returns the value as a signed integer. If it is not a signed integer,
// it returns 0.
func (v Value) Int() int64 {
	switch v.typ {
	case TypeInt8:
		return int64(int8(v.num))
	case TypeInt16:
		return int64(int16(v.num))
	case TypeInt32:
		return int64(int32(v.num))
	case TypeInt64:
		return int64(v.num)
	}
	return 0
}

// Uint returns the value as an unsigned integer. If it is not an unsigned
// integer, it returns 0.
func (v Value) Uint() uint64 {
	switch v.typ {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return v.num
	}
	return 0
}

// Float returns the value as a float. If it is not a float, it returns 0.
func (v Value) Float() float64 {
	switch v.typ {
	case TypeFloat32:
		return float64(math.Float32frombits(uint32(v.num)))
	case TypeFloat64:
		return math.Float64frombits(v.num)
	}
	return 0
}

// Bool returns the value as a boolean. If it is not a boolean, it returns false.
func (v Value) Bool() bool {
	return v.typ == TypeBool && v.num == 1
}

// String returns the value as a string. If it is not a string, it returns "".
func (v Value) String() string {
	if v.typ != TypeString {
		return ""
	}
	return v.str
}

// Ints returns an integer array as []int64. If the value is not an array of
// signed integers, it returns nil.
func (v Value) Ints() []int64 {
	switch v.Elem() {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
	default:
		return nil
	}
	out := make([]int64, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.Int()
	}
	return out
}

// Uints returns an unsigned integer array as []uint64. If the value is not an
// array of unsigned integers, it returns nil.
func (v Value) Uints() []uint64 {
	switch v.Elem() {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
	default:
		return nil
	}
	out := make([]uint64, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.Uint()
	}
	return out
}

// Floats returns a float array as []float64. If the value is not a float
// array, it returns nil.
func (v Value) Floats() []float64 {
	switch v.Elem() {
	case TypeFloat32, TypeFloat64:
	default:
		return nil
	}
	out := make([]float64, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.Float()
	}
	return out
}

// Bools returns a boolean array as []bool. If the value is not a boolean
// array, it returns nil.
func (v Value) Bools() []bool {
	if v.Elem() != TypeBool {
		return nil
	}
	out := make([]bool, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.Bool()
	}
	return out
}

// Strings returns a string array as []string. If the value is not a string
// array, it returns nil.
func (v Value) Strings() []string {
	if v.Elem() != TypeString {
		return nil
	}
	out := make([]string, len(v.arr))
	for i, e := range v.arr {
		out[i] = e.String()
	}
	return out
}
