package binary

import (
	"encoding/binary"
	"fmt"
)

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: ID3v2 frame headers, MP4 boxes, FLAC metadata blocks.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: Ogg pages, Vorbis/Opus/Speex identification headers.
	LittleEndian
)

// byteOrder is a byte order that can also append.
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (e Endianness) order() byteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint16:
		return 2
	case uint32:
		return 4
	case uint64:
		return 8
	}
	return 1
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// Example:
//
//	granule, err := binary.ReadLE[uint64](sr, offset+6, "granule position")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	var zero T
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}
	return Decode[T](buf, endian)
}

// Decode decodes a value of type T from the start of b.
//
// b may be longer than T; only the leading bytes are used. A short b is an error.
func Decode[T uint8 | uint16 | uint32 | uint64](b []byte, endian Endianness) (T, error) {
	var zero T
	if n := sizeOf[T](); len(b) < n {
		return zero, fmt.Errorf("decode: need %d bytes, have %d", n, len(b))
	}

	order := endian.order()
	switch any(zero).(type) {
	case uint8:
		return T(b[0]), nil
	case uint16:
		return T(order.Uint16(b)), nil
	case uint32:
		return T(order.Uint32(b)), nil
	case uint64:
		return T(order.Uint64(b)), nil
	}
	return zero, nil
}

// Append appends the encoding of v to dst and returns the extended slice.
func Append[T uint8 | uint16 | uint32 | uint64](dst []byte, v T, endian Endianness) []byte {
	order := endian.order()
	switch x := any(v).(type) {
	case uint8:
		return append(dst, x)
	case uint16:
		return order.AppendUint16(dst, x)
	case uint32:
		return order.AppendUint32(dst, x)
	case uint64:
		return order.AppendUint64(dst, x)
	}
	return dst
}
