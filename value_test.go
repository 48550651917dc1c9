// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stc

import (
	"bytes"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	cases := []Value{
		NewI8(-12),
		NewU8(200),
		NewI16(-1000),
		NewU16(50000),
		NewI32(-70000),
		NewU32(4000000000),
		NewI64(-9000000000000000000),
		NewU64(18000000000000000000),
		NewF32(3.5),
		NewF64(-2.25),
		NewString("hello"),
		NewString("héllo"),
	}

	for _, v := range cases {
		buf := &bytes.Buffer{}
		if err := v.Serialize(buf); err != nil {
			t.Fatalf("serialize %v: %v", v, err)
		}
		got, err := ReadValue(v.TypeTag(), buf)
		if err != nil {
			t.Fatalf("read back %v: %v", v, err)
		}
		if got.String() != v.String() {
			t.Fatalf("round trip mismatch: want %q got %q", v.String(), got.String())
		}
	}
}

func TestValueStringTooBig(t *testing.T) {
	v := NewString(string(make([]byte, maxStringBytes+1)))
	if err := v.Serialize(&bytes.Buffer{}); err != ErrStringTooBig {
		t.Fatalf("want ErrStringTooBig, got %v", err)
	}
}

func TestValueAsDoesNotCoerce(t *testing.T) {
	v := NewI32(5)
	if _, ok := v.AsI64(); ok {
		t.Fatal("AsI64 on an i32 Value should fail")
	}
	if _, ok := v.AsI32(); !ok {
		t.Fatal("AsI32 on an i32 Value should succeed")
	}
}

func TestValueAsStringRejectsNonString(t *testing.T) {
	v := NewI32(5)
	if _, ok := v.AsString(); ok {
		t.Fatal("AsString on an i32 Value should fail")
	}
}

func TestReadValueUnknownTag(t *testing.T) {
	if _, err := ReadValue(Tag(99), bytes.NewReader(nil)); err != ErrInvalidColumnType {
		t.Fatalf("want ErrInvalidColumnType, got %v", err)
	}
}
