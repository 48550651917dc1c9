// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stc

import "strconv"

// Scalar is the set of Go types a Value cell can be converted to or
// parsed into. Column types are fixed by the file; a mismatch is a
// schema bug, not something to silently widen across, so conversion
// never coerces between variants (e.g. asking a U32 cell for an i32
// fails rather than truncating).
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64 | ~string
}

// ValueAs converts a cell to T, failing with ErrValueConversionFailed
// unless the cell's tag matches T exactly. T = string uses the total
// display conversion (Value.String) rather than the non-coercing As*
// accessor, matching the From<&Value> for String impl in the original.
func ValueAs[T Scalar](v Value) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int8:
		x, ok := v.AsI8()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case uint8:
		x, ok := v.AsU8()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case int16:
		x, ok := v.AsI16()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case uint16:
		x, ok := v.AsU16()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case int32:
		x, ok := v.AsI32()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case uint32:
		x, ok := v.AsU32()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case int64:
		x, ok := v.AsI64()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case uint64:
		x, ok := v.AsU64()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case float32:
		x, ok := v.AsF32()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case float64:
		x, ok := v.AsF64()
		if !ok {
			return zero, ErrValueConversionFailed
		}
		return any(x).(T), nil
	case string:
		return any(v.String()).(T), nil
	default:
		return zero, ErrValueConversionFailed
	}
}

// parseScalar parses a delimited-array or delimited-map piece into T,
// used by Vector and Map. Failure is reported with ok=false so callers
// can surface it as ErrValueConversionFailed.
func parseScalar[T Scalar](s string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int8:
		n, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return zero, false
		}
		return any(int8(n)).(T), true
	case uint8:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return zero, false
		}
		return any(uint8(n)).(T), true
	case int16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return zero, false
		}
		return any(int16(n)).(T), true
	case uint16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return zero, false
		}
		return any(uint16(n)).(T), true
	case int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return zero, false
		}
		return any(int32(n)).(T), true
	case uint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return zero, false
		}
		return any(uint32(n)).(T), true
	case int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case float32:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, false
		}
		return any(float32(n)).(T), true
	case float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(T), true
	case string:
		return any(s).(T), true
	default:
		return zero, false
	}
}
