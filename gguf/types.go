package gguf

import "fmt"

// Format constants. The magic is the ASCII tag "GGUF" read as a
// little-endian uint32.
const (
	Magic            uint32 = 0x46554747
	Version          uint32 = 2
	DefaultAlignment uint64 = 32
)

// ValueType identifies the wire type of a metadata value
type ValueType uint32

const (
	TypeUint8 ValueType = iota
	TypeInt8
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeFloat32
	TypeBool
	TypeString
	TypeArray
	TypeUint64
	TypeInt64
	TypeFloat64
)

var typeNames = [...]string{
	TypeUint8:   "uint8",
	TypeInt8:    "int8",
	TypeUint16:  "uint16",
	TypeInt16:   "int16",
	TypeUint32:  "uint32",
	TypeInt32:   "int32",
	TypeFloat32: "float32",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeArray:   "array",
	TypeUint64:  "uint64",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
}

// String returns the type name, or "unknown(n)" for tags outside the table
func (t ValueType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

// valid reports whether t is one of the defined wire types
func (t ValueType) valid() bool {
	return int(t) < len(typeNames)
}

// scalarSizes maps fixed-width scalar types to their encoded byte width.
// String and Array are variable width and stay zero.
var scalarSizes = [...]int{
	TypeUint8:   1,
	TypeInt8:    1,
	TypeUint16:  2,
	TypeInt16:   2,
	TypeUint32:  4,
	TypeInt32:   4,
	TypeFloat32: 4,
	TypeBool:    1,
	TypeUint64:  8,
	TypeInt64:   8,
	TypeFloat64: 8,
}
