// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stc decodes and encodes the proprietary columnar table
// container ("STC container"): a single fixed-schema relation whose
// first column is a signed 32-bit row id and whose remaining columns
// are scalar numbers or length-prefixed strings.
//
// Binary layout:
//
//	0   u16 LE  table id
//	2   u16 LE  last block size (LBS)
//	4   u16 LE  row count (N)
//	─── if N == 0, end of file ───
//	6   u8      column count (C, 1..=255)
//	7   u8[C]   column type tags
//	7+C  jump table: (1 + N/100) entries, each i32 LE row id || u32 LE
//	     absolute file offset
//	next rows: N rows, each the concatenation of its column encodings
//
// The jump table is a coarse index by row order, not by id: only its
// first entry is consulted on read, to seek to the start of row 0's
// payload. last block size is (end-of-payload - 4) mod 65536 and is
// verified on read, backpatched on write.
package stc

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"
)

// Row is a single record: an ordered sequence of cells whose first
// element is always an i32 (the row id).
type Row []Value

// Table is a row container bound to a table id. The zero Table is not
// valid; use New or Deserialize.
type Table struct {
	ID   uint16
	Rows []Row
}

// New returns an empty table bound to id.
func New(id uint16) *Table {
	return &Table{ID: id}
}

const (
	maxRows    = 65535
	maxColumns = 255
)

// Deserialize reads one STC table from r, which must support Seek
// because only the jump table's first entry is read — the remaining
// entries are write-only metadata skipped via a single seek to the
// payload start.
func Deserialize(r io.ReadSeeker) (*Table, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, wrapIO(err)
	}
	tableID := binary.LittleEndian.Uint16(header[0:2])
	lastBlockSize := uint64(binary.LittleEndian.Uint16(header[2:4]))
	rowCount := binary.LittleEndian.Uint16(header[4:6])

	t := New(tableID)
	if rowCount == 0 {
		return t, nil
	}

	var columnCountByte [1]byte
	if _, err := io.ReadFull(r, columnCountByte[:]); err != nil {
		return nil, wrapIO(err)
	}
	columnCount := int(columnCountByte[0])

	columnTags := make([]Tag, columnCount)
	tagBuf := make([]byte, columnCount)
	if _, err := io.ReadFull(r, tagBuf); err != nil {
		return nil, wrapIO(err)
	}
	for i, b := range tagBuf {
		columnTags[i] = Tag(b)
	}

	// Read only the first jump-table entry to find the payload start;
	// every other entry is skipped by seeking past the jump table.
	var firstEntry [8]byte
	if _, err := io.ReadFull(r, firstEntry[:]); err != nil {
		return nil, wrapIO(err)
	}
	firstRowOffset := int64(binary.LittleEndian.Uint32(firstEntry[4:8]))
	if _, err := r.Seek(firstRowOffset, io.SeekStart); err != nil {
		return nil, wrapIO(err)
	}

	t.Rows = make([]Row, 0, rowCount)
	for i := uint16(0); i < rowCount; i++ {
		row := make(Row, columnCount)
		for c, tag := range columnTags {
			v, err := ReadValue(tag, r)
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		t.Rows = append(t.Rows, row)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, wrapIO(err)
	}
	if lastBlockSize != uint64(pos-4)%65536 {
		return nil, ErrLastBlockSizeMismatch
	}

	return t, nil
}

// AddRow appends row to the table, enforcing the four structural
// guards: row count, column count, row-id type, and (once a first row
// exists) consistent row length. Per-column type consistency beyond
// the first row is not re-checked here; a mismatch only surfaces at
// serialize time or on a subsequent read.
func (t *Table) AddRow(row Row) error {
	if len(t.Rows) >= maxRows {
		return ErrTooManyRows
	}
	if len(row) > maxColumns {
		return ErrTooManyColumns
	}
	if len(row) == 0 {
		return ErrInvalidRowID
	}
	if _, ok := row[0].AsI32(); !ok {
		return ErrInvalidRowID
	}
	if len(t.Rows) > 0 && len(t.Rows[0]) != len(row) {
		return ErrInconsistentRowLength
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Serialize writes the table to w, which must support Seek because the
// last-block-size field and the jump table are backpatched after the
// row payload is known to have been written.
func (t *Table) Serialize(w io.WriteSeeker) error {
	var header [6]byte
	binary.LittleEndian.PutUint16(header[0:2], t.ID)
	binary.LittleEndian.PutUint16(header[2:4], 2) // LBS placeholder
	if len(t.Rows) > maxRows {
		return ErrTooManyRows
	}
	binary.LittleEndian.PutUint16(header[4:6], uint16(len(t.Rows)))
	if _, err := w.Write(header[:]); err != nil {
		return wrapIO(err)
	}

	if len(t.Rows) == 0 {
		return nil
	}

	first := t.Rows[0]
	if len(first) > maxColumns {
		return ErrTooManyColumns
	}
	columnCount := len(first)
	if _, err := w.Write([]byte{byte(columnCount)}); err != nil {
		return wrapIO(err)
	}
	tagBuf := make([]byte, columnCount)
	for i, v := range first {
		tagBuf[i] = byte(v.TypeTag())
	}
	if _, err := w.Write(tagBuf); err != nil {
		return wrapIO(err)
	}

	jumpTableSize := 1 + len(t.Rows)/100
	placeholder := make([]byte, jumpTableSize*8)
	if _, err := w.Write(placeholder); err != nil {
		return wrapIO(err)
	}

	type bookmark struct {
		id     int32
		offset uint32
	}
	jumpTable := make([]bookmark, 0, jumpTableSize)

	for rowIndex, row := range t.Rows {
		for colIndex, v := range row {
			if rowIndex%100 == 0 && colIndex == 0 {
				id, ok := v.AsI32()
				if !ok {
					return ErrInvalidRowID
				}
				pos, err := w.Seek(0, io.SeekCurrent)
				if err != nil {
					return wrapIO(err)
				}
				if pos < 0 || pos > int64(^uint32(0)) {
					return ErrBookmarkOutOfBounds
				}
				jumpTable = append(jumpTable, bookmark{id: id, offset: uint32(pos)})
			}
			if err := v.Serialize(w); err != nil {
				return err
			}
		}
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return wrapIO(err)
	}
	lbs := uint16(uint64(end-4) % 65536)
	if _, err := w.Seek(2, io.SeekStart); err != nil {
		return wrapIO(err)
	}
	var lbsBuf [2]byte
	binary.LittleEndian.PutUint16(lbsBuf[:], lbs)
	if _, err := w.Write(lbsBuf[:]); err != nil {
		return wrapIO(err)
	}

	// Entry k points at row 100*k. When the row count is a multiple of
	// 100 the last entry has no such row and keeps its zero-filled
	// placeholder.
	if _, err := w.Seek(int64(7+columnCount), io.SeekStart); err != nil {
		return wrapIO(err)
	}
	entryBuf := make([]byte, 0, len(jumpTable)*8)
	for _, b := range jumpTable {
		var e [8]byte
		binary.LittleEndian.PutUint32(e[0:4], uint32(b.id))
		binary.LittleEndian.PutUint32(e[4:8], b.offset)
		entryBuf = append(entryBuf, e[:]...)
	}
	if _, err := w.Write(entryBuf); err != nil {
		return wrapIO(err)
	}

	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return wrapIO(err)
	}

	return nil
}

// At reads row/column as T, bounds-checking first. Conversion failure
// (tag mismatch) is reported as ErrValueConversionFailed. It is a
// package-level function rather than a method because Go methods
// cannot carry their own type parameters.
func At[T Scalar](t *Table, row, column int) (T, error) {
	var zero T
	if row < 0 || row >= len(t.Rows) {
		return zero, ErrRowNotFound
	}
	r := t.Rows[row]
	if column < 0 || column >= len(r) {
		return zero, ErrColumnNotFound
	}
	return ValueAs[T](r[column])
}

// Vector splits a string cell by sep and parses each piece as T,
// failing with ErrInvalidColumnType if the cell is not a string and
// ErrValueConversionFailed if any piece fails to parse.
func Vector[T Scalar](t *Table, row, column int, sep string) ([]T, error) {
	if row < 0 || row >= len(t.Rows) {
		return nil, ErrRowNotFound
	}
	r := t.Rows[row]
	if column < 0 || column >= len(r) {
		return nil, ErrColumnNotFound
	}
	s, ok := r[column].AsString()
	if !ok {
		return nil, ErrInvalidColumnType
	}
	pieces := strings.Split(s, sep)
	out := make([]T, len(pieces))
	for i, p := range pieces {
		v, ok := parseScalar[T](p)
		if !ok {
			return nil, ErrValueConversionFailed
		}
		out[i] = v
	}
	return out, nil
}

// Map splits a string cell by pairSep, then each piece once by kvSep
// into a (key, value) pair. Later keys overwrite earlier ones.
func Map[K comparable, V Scalar](t *Table, row, column int, pairSep, kvSep string) (map[K]V, error) {
	if row < 0 || row >= len(t.Rows) {
		return nil, ErrRowNotFound
	}
	r := t.Rows[row]
	if column < 0 || column >= len(r) {
		return nil, ErrColumnNotFound
	}
	s, ok := r[column].AsString()
	if !ok {
		return nil, ErrInvalidColumnType
	}
	pieces := strings.Split(s, pairSep)
	out := make(map[K]V, len(pieces))
	for _, p := range pieces {
		kv := strings.SplitN(p, kvSep, 2)
		if len(kv) != 2 {
			return nil, ErrValueConversionFailed
		}
		k, ok := parseScalarKey[K](kv[0])
		if !ok {
			return nil, ErrValueConversionFailed
		}
		v, ok := parseScalar[V](kv[1])
		if !ok {
			return nil, ErrValueConversionFailed
		}
		out[k] = v
	}
	return out, nil
}

// parseScalarKey parses a map key; it mirrors parseScalar but works
// over the comparable constraint so K can back a Go map.
func parseScalarKey[K comparable](s string) (K, bool) {
	var zero K
	switch any(zero).(type) {
	case int8:
		n, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return zero, false
		}
		return any(int8(n)).(K), true
	case uint8:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return zero, false
		}
		return any(uint8(n)).(K), true
	case int16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return zero, false
		}
		return any(int16(n)).(K), true
	case uint16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return zero, false
		}
		return any(uint16(n)).(K), true
	case int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return zero, false
		}
		return any(int32(n)).(K), true
	case uint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return zero, false
		}
		return any(uint32(n)).(K), true
	case int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(K), true
	case uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(K), true
	case float32:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, false
		}
		return any(float32(n)).(K), true
	case float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, false
		}
		return any(n).(K), true
	case string:
		return any(s).(K), true
	default:
		return zero, false
	}
}
