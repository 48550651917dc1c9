// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// Tag identifies the wire encoding and Go type backing a Value. Tags are
// stable across file versions: 1..=11.
type Tag uint8

const (
	TagI8     Tag = 1
	TagU8     Tag = 2
	TagI16    Tag = 3
	TagU16    Tag = 4
	TagI32    Tag = 5
	TagU32    Tag = 6
	TagI64    Tag = 7
	TagU64    Tag = 8
	TagF32    Tag = 9
	TagF64    Tag = 10
	TagString Tag = 11
)

var tagNames = map[Tag]string{
	TagI8:     "i8",
	TagU8:     "u8",
	TagI16:    "i16",
	TagU16:    "u16",
	TagI32:    "i32",
	TagU32:    "u32",
	TagI64:    "i64",
	TagU64:    "u64",
	TagF32:    "f32",
	TagF64:    "f64",
	TagString: "string",
}

// maxStringBytes is the wire limit for an encoded string payload: the
// length prefix is an unsigned 16-bit integer.
const maxStringBytes = 65535

// Value is a tagged scalar or string cell. The zero Value is not valid;
// construct one of the New* helpers or read one off the wire.
type Value struct {
	tag Tag
	i   int64  // backs i8/u8/i16/u16/i32/u32/i64 (sign-extended as needed)
	u   uint64 // backs u64
	f   float64
	s   string
}

func NewI8(v int8) Value     { return Value{tag: TagI8, i: int64(v)} }
func NewU8(v uint8) Value    { return Value{tag: TagU8, i: int64(v)} }
func NewI16(v int16) Value   { return Value{tag: TagI16, i: int64(v)} }
func NewU16(v uint16) Value  { return Value{tag: TagU16, i: int64(v)} }
func NewI32(v int32) Value   { return Value{tag: TagI32, i: int64(v)} }
func NewU32(v uint32) Value  { return Value{tag: TagU32, i: int64(v)} }
func NewI64(v int64) Value   { return Value{tag: TagI64, i: v} }
func NewU64(v uint64) Value  { return Value{tag: TagU64, u: v} }
func NewF32(v float32) Value { return Value{tag: TagF32, f: float64(v)} }
func NewF64(v float64) Value { return Value{tag: TagF64, f: v} }
func NewString(v string) Value {
	return Value{tag: TagString, s: v}
}

// TypeTag returns the wire tag for v.
func (v Value) TypeTag() Tag {
	return v.tag
}

// TypeName returns the canonical lowercase type name for v's variant.
func (v Value) TypeName() string {
	if name, ok := tagNames[v.tag]; ok {
		return name
	}
	return "unknown"
}

// ReadValue dispatches on tag and reads one Value's wire encoding from r.
// Tag 11 (string) reads the ASCII-advisory flag, the 2-byte LE length,
// then that many bytes, decoded as UTF-8 with lossy replacement of
// ill-formed sequences. An unrecognized tag fails with ErrInvalidColumnType.
func ReadValue(tag Tag, r io.Reader) (Value, error) {
	switch tag {
	case TagI8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewI8(int8(b[0])), nil
	case TagU8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewU8(b[0]), nil
	case TagI16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewI16(int16(binary.LittleEndian.Uint16(b[:]))), nil
	case TagU16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewU16(binary.LittleEndian.Uint16(b[:])), nil
	case TagI32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewI32(int32(binary.LittleEndian.Uint32(b[:]))), nil
	case TagU32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewU32(binary.LittleEndian.Uint32(b[:])), nil
	case TagI64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewI64(int64(binary.LittleEndian.Uint64(b[:]))), nil
	case TagU64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewU64(binary.LittleEndian.Uint64(b[:])), nil
	case TagF32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewF32(math.Float32frombits(binary.LittleEndian.Uint32(b[:]))), nil
	case TagF64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewF64(math.Float64frombits(binary.LittleEndian.Uint64(b[:]))), nil
	case TagString:
		// UTF-8 is ASCII-compatible, so the advisory flag is read and
		// discarded rather than seeked over: seeking would require an
		// io.Seeker constraint the row reader doesn't otherwise need.
		var flag [1]byte
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return Value{}, wrapIO(err)
		}
		n := binary.LittleEndian.Uint16(lenBuf[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Value{}, wrapIO(err)
		}
		return NewString(toValidUTF8(buf)), nil
	default:
		return Value{}, ErrInvalidColumnType
	}
}

// Serialize writes v's wire encoding to w. The string path recomputes
// the ASCII-advisory flag from the payload and fails with
// ErrStringTooBig if the encoded length exceeds 65535 bytes.
func (v Value) Serialize(w io.Writer) error {
	switch v.tag {
	case TagI8:
		_, err := w.Write([]byte{byte(int8(v.i))})
		return wrapIO(err)
	case TagU8:
		_, err := w.Write([]byte{byte(v.i)})
		return wrapIO(err)
	case TagI16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(v.i)))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagU16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v.i))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagI32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(int32(v.i)))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagU32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v.i))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagI64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.i))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagU64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.u)
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagF32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v.f)))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagF64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.f))
		_, err := w.Write(b[:])
		return wrapIO(err)
	case TagString:
		if len(v.s) > maxStringBytes {
			return ErrStringTooBig
		}
		flag := byte(0)
		if isASCII(v.s) {
			flag = 1
		}
		if _, err := w.Write([]byte{flag}); err != nil {
			return wrapIO(err)
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(v.s)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return wrapIO(err)
		}
		_, err := io.WriteString(w, v.s)
		return wrapIO(err)
	default:
		return fmt.Errorf("stc: cannot serialize value with unknown tag %d", v.tag)
	}
}

// String renders v for display: decimal for numerics, the raw payload
// for strings.
func (v Value) String() string {
	switch v.tag {
	case TagI8, TagU8, TagI16, TagU16, TagI32, TagU32, TagI64:
		return strconv.FormatInt(v.i, 10)
	case TagU64:
		return strconv.FormatUint(v.u, 10)
	case TagF32, TagF64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TagString:
		return v.s
	default:
		return ""
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

func toValidUTF8(buf []byte) string {
	if utf8.Valid(buf) {
		return string(buf)
	}
	return string([]rune(string(buf)))
}

// As<Scalar> accessors never coerce across variants: the tag must match
// exactly, otherwise ok is false.

func (v Value) AsI8() (int8, bool) {
	if v.tag != TagI8 {
		return 0, false
	}
	return int8(v.i), true
}
func (v Value) AsU8() (uint8, bool) {
	if v.tag != TagU8 {
		return 0, false
	}
	return uint8(v.i), true
}
func (v Value) AsI16() (int16, bool) {
	if v.tag != TagI16 {
		return 0, false
	}
	return int16(v.i), true
}
func (v Value) AsU16() (uint16, bool) {
	if v.tag != TagU16 {
		return 0, false
	}
	return uint16(v.i), true
}
func (v Value) AsI32() (int32, bool) {
	if v.tag != TagI32 {
		return 0, false
	}
	return int32(v.i), true
}
func (v Value) AsU32() (uint32, bool) {
	if v.tag != TagU32 {
		return 0, false
	}
	return uint32(v.i), true
}
func (v Value) AsI64() (int64, bool) {
	if v.tag != TagI64 {
		return 0, false
	}
	return v.i, true
}
func (v Value) AsU64() (uint64, bool) {
	if v.tag != TagU64 {
		return 0, false
	}
	return v.u, true
}
func (v Value) AsF32() (float32, bool) {
	if v.tag != TagF32 {
		return 0, false
	}
	return float32(v.f), true
}
func (v Value) AsF64() (float64, bool) {
	if v.tag != TagF64 {
		return 0, false
	}
	return v.f, true
}
func (v Value) AsString() (string, bool) {
	if v.tag != TagString {
		return "", false
	}
	return v.s, true
}
