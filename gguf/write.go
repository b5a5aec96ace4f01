package gguf

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// Encode writes a container header, metadata, and tensor table to w, then
// pads with zero bytes up to the data-section alignment (general.alignment
// from kv, default 32). Metadata keys are written in sorted order so output
// is deterministic. Tensor payloads are not written; descriptors carry
// whatever offsets the caller computed for them.
func Encode(w io.Writer, kv map[string]Value, tensors []TensorDescriptor) error {
	cw := &countingWriter{w: w}

	if err := writeAll(cw,
		Magic,
		Version,
		uint64(len(tensors)),
		uint64(len(kv)),
	); err != nil {
		return err
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := writeString(cw, k); err != nil {
			return err
		}
		if err := writeValue(cw, kv[k]); err != nil {
			return fmt.Errorf("metadata %q: %w", k, err)
		}
	}

	for _, t := range tensors {
		if err := writeString(cw, t.Name); err != nil {
			return err
		}
		if err := writeAll(cw, uint32(len(t.Dims))); err != nil {
			return err
		}
		for _, d := range t.Dims {
			if err := writeAll(cw, d); err != nil {
				return err
			}
		}
		if err := writeAll(cw, t.Type, t.Offset); err != nil {
			return err
		}
	}

	alignment := DefaultAlignment
	if v, ok := kv[KeyGeneralAlignment]; ok {
		alignment = v.Uint()
	}
	if pad := padding(cw.n, alignment); pad > 0 {
		if _, err := cw.Write(make([]byte, pad)); err != nil {
			return err
		}
	}
	return nil
}

// writeValue writes the type tag and payload of one value
func writeValue(w io.Writer, v Value) error {
	if err := writeAll(w, uint32(v.Type())); err != nil {
		return err
	}
	return writePayload(w, v)
}

// writePayload writes a value's payload without its outer type tag. Array
// elements are written payload-only, per the wire format.
func writePayload(w io.Writer, v Value) error {
	switch v.Type() {
	case TypeString:
		return writeString(w, v.str)
	case TypeArray:
		if err := writeAll(w, uint32(v.Elem()), uint64(v.Len())); err != nil {
			return err
		}
		for _, e := range v.arr {
			if err := writePayload(w, e); err != nil {
				return err
			}
		}
		return nil
	case TypeUint8, TypeBool:
		return writeAll(w, uint8(v.num))
	case TypeInt8:
		return writeAll(w, int8(v.num))
	case TypeUint16:
		return writeAll(w, uint16(v.num))
	case TypeInt16:
		return writeAll(w, int16(v.num))
	case TypeUint32, TypeFloat32:
		return writeAll(w, uint32(v.num))
	case TypeInt32:
		return writeAll(w, int32(v.num))
	case TypeUint64, TypeInt64, TypeFloat64:
		return writeAll(w, v.num)
	}
	return fmt.Errorf("%w: cannot encode value type %s", ErrData, v.Type())
}

// writeString writes a u64 length prefix and the raw bytes
func writeString(w io.Writer, s string) error {
	if err := writeAll(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// writeAll writes each value little-endian
func writeAll(w io.Writer, vs ...any) error {
	for _, v := range vs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// padding returns the zero bytes needed to reach the next aligned offset
func padding(offset, alignment uint64) uint64 {
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	return (alignment - offset%alignment) % alignment
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += uint64(n)
	return n, err
}
