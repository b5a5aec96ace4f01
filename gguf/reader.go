package gguf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// Decoder reads a GGUF container from a sequential byte source. Reads are
// forward-only; the decoder tracks its own byte position, so the source does
// not need to support seeking. A Decoder is single-use: decode the header,
// then the tensor table, then ask for the data offset.
type Decoder struct {
	r       io.Reader
	pos     uint64
	scratch [512]byte

	maxStringLen int
	maxArraySize int
}

// DecoderOption is a functional option for Decoder
type DecoderOption func(*Decoder)

// WithMaxStringLen caps the length of any key or string value. Zero means no
// limit. A longer string in the stream is reported as a data error.
func WithMaxStringLen(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxStringLen = n
	}
}

// WithMaxArraySize caps the element count of any array value, counting nested
// arrays. Zero means no limit.
func WithMaxArraySize(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxArraySize = n
	}
}

// NewDecoder creates a Decoder reading from r
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{r: r}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pos returns the number of bytes consumed so far
func (d *Decoder) Pos() uint64 {
	return d.pos
}

// read fills buf completely. A short read or any other I/O failure is the
// unexpected error class.
func (d *Decoder) read(buf []byte) error {
	start := d.pos
	n, err := io.ReadFull(d.r, buf)
	d.pos += uint64(n)
	if err != nil {
		return fmt.Errorf("%w: read %d bytes at offset %d: %v", ErrUnexpected, len(buf), start, err)
	}
	return nil
}

func (d *Decoder) readUint32() (uint32, error) {
	buf := d.scratch[:4]
	if err := d.read(buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	buf := d.scratch[:8]
	if err := d.read(buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// readString reads a u64 length prefix and that many UTF-8 bytes. The result
// is an owned copy, valid after the stream is gone. The length prefix is
// untrusted: long strings are read through a growing buffer, never allocated
// up front, so a lying prefix fails on the short read instead of exhausting
// memory.
func (d *Decoder) readString() (string, error) {
	start := d.pos
	length, err := d.readUint64()
	if err != nil {
		return "", err
	}
	if d.maxStringLen > 0 && length > uint64(d.maxStringLen) {
		return "", fmt.Errorf("%w: string length %d exceeds limit %d", ErrData, length, d.maxStringLen)
	}
	if length > math.MaxInt64 {
		return "", fmt.Errorf("%w: string length %d overflows", ErrData, length)
	}

	var buf []byte
	if length <= uint64(len(d.scratch)) {
		buf = d.scratch[:length]
		if err := d.read(buf); err != nil {
			return "", err
		}
	} else {
		var b bytes.Buffer
		n, err := io.CopyN(&b, d.r, int64(length))
		d.pos += uint64(n)
		if err != nil {
			return "", fmt.Errorf("%w: read %d-byte string at offset %d: %v", ErrUnexpected, length, start, err)
		}
		buf = b.Bytes()
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrData)
	}
	return string(buf), nil
}

// readValue decodes one value of the given wire type, recursing for arrays
func (d *Decoder) readValue(typ ValueType) (Value, error) {
	switch typ {
	case TypeUint8, TypeInt8, TypeUint16, TypeInt16, TypeUint32, TypeInt32,
		TypeUint64, TypeInt64, TypeFloat32, TypeFloat64:
		return d.readScalar(typ)
	case TypeBool:
		if err := d.read(d.scratch[:1]); err != nil {
			return Value{}, err
		}
		switch d.scratch[0] {
		case 0:
			return BoolValue(false), nil
		case 1:
			return BoolValue(true), nil
		}
		// the format defines exactly 0 and 1; coercing would hide corruption
		return Value{}, fmt.Errorf("%w: invalid boolean byte 0x%02x", ErrData, d.scratch[0])
	case TypeString:
		s, err := d.readString()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case TypeArray:
		return d.readArray()
	}
	return Value{}, fmt.Errorf("%w: invalid value type tag %d", ErrData, uint32(typ))
}

// readScalar decodes a fixed-width little-endian scalar
func (d *Decoder) readScalar(typ ValueType) (Value, error) {
	buf := d.scratch[:scalarSizes[typ]]
	if err := d.read(buf); err != nil {
		return Value{}, err
	}

	switch typ {
	case TypeUint8:
		return Uint8Value(buf[0]), nil
	case TypeInt8:
		return Int8Value(int8(buf[0])), nil
	case TypeUint16:
		return Uint16Value(binary.LittleEndian.Uint16(buf)), nil
	case TypeInt16:
		return Int16Value(int16(binary.LittleEndian.Uint16(buf))), nil
	case TypeUint32:
		return Uint32Value(binary.LittleEndian.Uint32(buf)), nil
	case TypeInt32:
		return Int32Value(int32(binary.LittleEndian.Uint32(buf))), nil
	case TypeUint64:
		return Uint64Value(binary.LittleEndian.Uint64(buf)), nil
	case TypeInt64:
		return Int64Value(int64(binary.LittleEndian.Uint64(buf))), nil
	case TypeFloat32:
		return Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	case TypeFloat64:
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(buf))), nil
	}
	panic("gguf: readScalar called with non-scalar type")
}

// readArray decodes an array payload: element type tag, element count, then
// that many elements of the element type. Nesting is allowed; every level
// checks its own element tag.
func (d *Decoder) readArray() (Value, error) {
	rawElem, err := d.readUint32()
	if err != nil {
		return Value{}, err
	}
	elem := ValueType(rawElem)
	if !elem.valid() {
		return Value{}, fmt.Errorf("%w: invalid array element type tag %d", ErrData, rawElem)
	}

	count, err := d.readUint64()
	if err != nil {
		return Value{}, err
	}
	if d.maxArraySize > 0 && count > uint64(d.maxArraySize) {
		return Value{}, fmt.Errorf("%w: array of %d elements exceeds limit %d", ErrData, count, d.maxArraySize)
	}

	elems := make([]Value, 0, min(count, 1<<16))
	for i := uint64(0); i < count; i++ {
		v, err := d.readValue(elem)
		if err != nil {
			return Value{}, fmt.Errorf("array element %d: %w", i, err)
		}
		elems = append(elems, v)
	}
	return ArrayValue(elem, elems), nil
}

// DecodeHeader reads and validates the container header: magic, version,
// tensor count, and the full metadata map. The first error aborts the decode
// and no header is returned.
func (d *Decoder) DecodeHeader() (*Header, error) {
	magic, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x, want 0x%08x", ErrData, magic, Magic)
	}

	version, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d, want %d", ErrData, version, Version)
	}

	tensorCount, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	kvCount, err := d.readUint64()
	if err != nil {
		return nil, err
	}

	h := &Header{
		Magic:       magic,
		Version:     version,
		TensorCount: tensorCount,
		KV:          make(map[string]Value, kvCount),
	}

	for i := uint64(0); i < kvCount; i++ {
		key, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("metadata key %d: %w", i, err)
		}
		if _, ok := h.KV[key]; ok {
			return nil, fmt.Errorf("%w: duplicate metadata key %q", ErrData, key)
		}

		rawType, err := d.readUint32()
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", key, err)
		}
		typ := ValueType(rawType)
		if !typ.valid() {
			return nil, fmt.Errorf("%w: metadata %q has invalid type tag %d", ErrData, key, rawType)
		}

		v, err := d.readValue(typ)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", key, err)
		}
		h.KV[key] = v
	}

	return h, nil
}

// ReadTensorTable reads count tensor descriptors. It must be called after
// DecodeHeader, with the header's TensorCount. Offsets are relative to the
// start of the data section and must be non-decreasing in declaration order.
func (d *Decoder) ReadTensorTable(count uint64) ([]TensorDescriptor, error) {
	tensors := make([]TensorDescriptor, 0, min(count, 1<<16))
	seen := make(map[string]struct{}, min(count, 1<<16))

	var lastOffset uint64
	for i := uint64(0); i < count; i++ {
		name, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("tensor %d: %w", i, err)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: duplicate tensor name %q", ErrData, name)
		}
		seen[name] = struct{}{}

		nDims, err := d.readUint32()
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}

		// nDims is untrusted too; grow as dimensions actually arrive
		dims := make([]uint64, 0, min(nDims, 1<<8))
		for j := uint32(0); j < nDims; j++ {
			dim, err := d.readUint64()
			if err != nil {
				return nil, fmt.Errorf("tensor %q dim %d: %w", name, j, err)
			}
			dims = append(dims, dim)
		}

		// the element type id is opaque here; the weight loader interprets it
		typ, err := d.readUint32()
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}

		offset, err := d.readUint64()
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		if offset < lastOffset {
			return nil, fmt.Errorf("%w: tensor %q offset %d precedes previous offset %d", ErrData, name, offset, lastOffset)
		}
		lastOffset = offset

		tensors = append(tensors, TensorDescriptor{
			Name:   name,
			Dims:   dims,
			Type:   typ,
			Offset: offset,
		})
	}

	return tensors, nil
}

// DataOffset returns the absolute offset of the data section: the current
// position rounded up to the next multiple of alignment.
func (d *Decoder) DataOffset(alignment uint64) uint64 {
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	return (d.pos + alignment - 1) / alignment * alignment
}

// Decode reads a complete container from r: header, tensor table, and the
// aligned data-section offset (honoring general.alignment when present).
func Decode(r io.Reader, opts ...DecoderOption) (*File, error) {
	d := NewDecoder(r, opts...)

	header, err := d.DecodeHeader()
	if err != nil {
		return nil, err
	}

	tensors, err := d.ReadTensorTable(header.TensorCount)
	if err != nil {
		return nil, err
	}

	return &File{
		Header:     *header,
		Tensors:    tensors,
		DataOffset: d.DataOffset(header.Alignment()),
	}, nil
}
