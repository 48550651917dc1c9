// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stccsv is the optional CSV bridge: it lifts stc.Table rows in
// and out through a CSV stream using the same row/stc.Value vocabulary
// as the core codec, the way original_source/stc2csv lifted rows
// through the Rust `csv` crate.
package stccsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scdtools/stc"
	"github.com/scdtools/stc/definitions"
	"github.com/scdtools/stc/named"
)

// Write writes a column-name header row (col_N when columnNames is
// nil or shorter than the row), a type-name header row, and then one
// CSV row per table row. String cells are written verbatim: embedded
// CR/LF must already be escaped by the caller (e.g. into literal
// `\r`/`\n`) before calling Write, to avoid row breaks in the output.
// A table with no rows writes nothing, not even the header rows.
func Write(w io.Writer, t *stc.Table, columnNames []string) error {
	if len(t.Rows) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)

	first := t.Rows[0]
	names := make([]string, len(first))
	types := make([]string, len(first))
	for i, v := range first {
		if i < len(columnNames) && columnNames[i] != "" {
			names[i] = columnNames[i]
		} else {
			names[i] = fmt.Sprintf("col_%d", i)
		}
		types[i] = v.TypeName()
	}

	if err := cw.Write(names); err != nil {
		return err
	}
	if err := cw.Write(types); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// NamedWrite writes n's table to w using def's column names.
func NamedWrite(w io.Writer, n *named.NamedTable, def definitions.TableDefinition) error {
	return Write(w, n.Table, def.Columns)
}

var typeTags = map[string]stc.Tag{
	"i8":     stc.TagI8,
	"u8":     stc.TagU8,
	"i16":    stc.TagI16,
	"u16":    stc.TagU16,
	"i32":    stc.TagI32,
	"u32":    stc.TagU32,
	"i64":    stc.TagI64,
	"u64":    stc.TagU64,
	"f32":    stc.TagF32,
	"f64":    stc.TagF64,
	"string": stc.TagString,
}

// Read consumes a column-name header row then a type-name header row,
// then parses each subsequent CSV row into a stc.Table row by the
// declared per-column type. An unrecognized type name fails with
// stc.ErrInvalidColumnType; a cell that doesn't parse as its declared
// type fails with stc.ErrValueConversionFailed.
func Read(r io.Reader, id uint16) (*stc.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // column names, unused here
		if err == io.EOF {
			return stc.New(id), nil
		}
		return nil, err
	}

	typeRow, err := cr.Read()
	if err != nil {
		return nil, err
	}

	tags := make([]stc.Tag, len(typeRow))
	for i, name := range typeRow {
		tag, ok := typeTags[name]
		if !ok {
			return nil, stc.ErrInvalidColumnType
		}
		tags[i] = tag
	}

	t := stc.New(id)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(stc.Row, len(record))
		for i, cell := range record {
			v, err := parseCell(tags[i], cell)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		if err := t.AddRow(row); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// NamedRead reads a table from r and wraps it using def.
func NamedRead(r io.Reader, id uint16, def definitions.TableDefinition) (*named.NamedTable, error) {
	t, err := Read(r, id)
	if err != nil {
		return nil, err
	}
	return named.FromDefinition(t, def)
}

func parseCell(tag stc.Tag, s string) (stc.Value, error) {
	switch tag {
	case stc.TagI8:
		n, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewI8(int8(n)), nil
	case stc.TagU8:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewU8(uint8(n)), nil
	case stc.TagI16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewI16(int16(n)), nil
	case stc.TagU16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewU16(uint16(n)), nil
	case stc.TagI32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewI32(int32(n)), nil
	case stc.TagU32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewU32(uint32(n)), nil
	case stc.TagI64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewI64(n), nil
	case stc.TagU64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewU64(n), nil
	case stc.TagF32:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewF32(float32(n)), nil
	case stc.TagF64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return stc.Value{}, stc.ErrValueConversionFailed
		}
		return stc.NewF64(n), nil
	case stc.TagString:
		return stc.NewString(s), nil
	default:
		return stc.Value{}, stc.ErrInvalidColumnType
	}
}
