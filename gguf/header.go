package gguf

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Header is the decoded container header: magic, version, tensor count and
// the metadata map. It is created once per decode and not mutated afterwards.
type Header struct {
	Magic       uint32
	Version     uint32
	TensorCount uint64
	KV          map[string]Value
}

// TensorDescriptor locates one tensor inside the data section. The element
// type tag is a format-defined numeric id and is not interpreted here; byte
// spans are derived from Dims and Type by the weight loader.
type TensorDescriptor struct {
	Name   string
	Dims   []uint64
	Type   uint32
	Offset uint64 // relative to the start of the data section
}

// Elements returns the element count implied by the dimensions
func (t TensorDescriptor) Elements() uint64 {
	n := uint64(1)
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// File is a fully decoded container: header, tensor table and the absolute
// stream offset at which the aligned data section begins.
type File struct {
	Header
	Tensors    []TensorDescriptor
	DataOffset uint64
}

// Uint returns the metadata value for key as an unsigned integer, or the
// default (0 if none is given) when the key is absent or not an unsigned
// integer.
func (h *Header) Uint(key string, defaults ...uint64) uint64 {
	v, ok := h.KV[key]
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return 0
	}
	return v.Uint()
}

// Int returns the metadata value for key as a signed integer, with the same
// default behavior as Uint.
func (h *Header) Int(key string, defaults ...int64) int64 {
	v, ok := h.KV[key]
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return 0
	}
	return v.Int()
}

// Float returns the metadata value for key as a float, with the same default
// behavior as Uint.
func (h *Header) Float(key string, defaults ...float64) float64 {
	v, ok := h.KV[key]
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return 0
	}
	return v.Float()
}

// Bool returns the metadata value for key as a boolean, with the same default
// behavior as Uint.
func (h *Header) Bool(key string, defaults ...bool) bool {
	v, ok := h.KV[key]
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return false
	}
	return v.Bool()
}

// String returns the metadata value for key as a string, with the same
// default behavior as Uint.
func (h *Header) String(key string, defaults ...string) string {
	v, ok := h.KV[key]
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return ""
	}
	return v.String()
}

// Alignment returns the data-section alignment: general.alignment when
// present, otherwise the format default of 32.
func (h *Header) Alignment() uint64 {
	return h.Uint(KeyGeneralAlignment, DefaultAlignment)
}

// Keys returns the metadata keys in sorted order
func (h *Header) Keys() []string {
	keys := make([]string, 0, len(h.KV))
	for k := range h.KV {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Fingerprint returns an xxhash digest of the file's structural content:
// header fields, metadata keys and values, and the tensor table. Two files
// with the same fingerprint describe the same model layout, so external
// caches can key on it without rereading tensor payloads.
func (f *File) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], f.Magic)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], f.Version)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint64(buf[:], f.TensorCount)
	h.Write(buf[:])

	for _, k := range f.Keys() {
		h.WriteString(k)
		hashValue(h, f.KV[k])
	}

	for _, t := range f.Tensors {
		h.WriteString(t.Name)
		for _, d := range t.Dims {
			binary.LittleEndian.PutUint64(buf[:], d)
			h.Write(buf[:])
		}
		binary.LittleEndian.PutUint32(buf[:4], t.Type)
		h.Write(buf[:4])
		binary.LittleEndian.PutUint64(buf[:], t.Offset)
		h.Write(buf[:])
	}

	return h.Sum64()
}

// hashValue feeds a value's type tag and payload into the digest
func hashValue(h *xxhash.Digest, v Value) {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(v.Type()))
	h.Write(buf[:4])

	switch v.Type() {
	case TypeString:
		binary.LittleEndian.PutUint64(buf[:], uint64(len(v.str)))
		h.Write(buf[:])
		h.WriteString(v.str)
	case TypeArray:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v.Elem()))
		h.Write(buf[:4])
		binary.LittleEndian.PutUint64(buf[:], uint64(v.Len()))
		h.Write(buf[:])
		for _, e := range v.arr {
			hashValue(h, e)
		}
	default:
		binary.LittleEndian.PutUint64(buf[:], v.num)
		h.Write(buf[:])
	}
}
