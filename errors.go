// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stc

import (
	"fmt"
	"io"
)

// Error is the unified error taxonomy for the parse, serialize, and
// access paths of an STC table. The zero value is not a valid error.
type Error uint

const (
	_ Error = iota

	// ErrLastBlockSizeMismatch means the trailing last-block-size field
	// did not match the payload actually read.
	ErrLastBlockSizeMismatch

	// ErrTooManyRows means AddRow would push the table past 65535 rows.
	ErrTooManyRows
	// ErrTooManyColumns means a row has more than 255 columns.
	ErrTooManyColumns
	// ErrInvalidRowID means a row's first cell is not an i32 Value.
	ErrInvalidRowID
	// ErrInconsistentRowLength means a row's length does not match the
	// table's first row.
	ErrInconsistentRowLength
	// ErrStringTooBig means a string Value's encoded length exceeds
	// 65535 bytes.
	ErrStringTooBig
	// ErrBookmarkOutOfBounds means a jump-table offset exceeded 32 bits.
	ErrBookmarkOutOfBounds

	// ErrRowNotFound means a row id or row index did not resolve.
	ErrRowNotFound
	// ErrColumnNotFound means a column name or column index did not
	// resolve.
	ErrColumnNotFound
	// ErrValueConversionFailed means a cell's Value tag did not match
	// the requested scalar type, or a delimited piece failed to parse.
	ErrValueConversionFailed
	// ErrInvalidColumnType means an operation expected a string-typed
	// cell (vector/map access), a CSV type name was unrecognized, or
	// ReadValue was given an unknown wire tag.
	ErrInvalidColumnType
	// ErrMismatchedLength means NamedTable.Array got a result whose
	// length did not equal the requested length.
	ErrMismatchedLength

	// ErrInvalidTableID means a definitions-file line's id column did
	// not parse as a uint16.
	ErrInvalidTableID
	// ErrNoTableName means a definitions-file line was missing its name
	// field.
	ErrNoTableName
	// ErrNoTableColumnNames means a definitions-file line was missing
	// its column-names field.
	ErrNoTableColumnNames
	// ErrNoTableColumnTypes means a definitions-file line was missing
	// its column-types field.
	ErrNoTableColumnTypes
	// ErrInconsistentNamesAndTypesLength means a definitions-file line's
	// column-names and column-types lists differ in length.
	ErrInconsistentNamesAndTypesLength
)

var errorText = map[Error]string{
	ErrLastBlockSizeMismatch:           "stc: last block size mismatch",
	ErrTooManyRows:                     "stc: too many rows",
	ErrTooManyColumns:                  "stc: too many columns",
	ErrInvalidRowID:                    "stc: invalid row id, first column must be i32",
	ErrInconsistentRowLength:           "stc: inconsistent row length",
	ErrStringTooBig:                    "stc: string exceeds 65535 bytes",
	ErrBookmarkOutOfBounds:             "stc: jump table bookmark out of bounds",
	ErrRowNotFound:                     "stc: row not found",
	ErrColumnNotFound:                  "stc: column not found",
	ErrValueConversionFailed:           "stc: value conversion failed",
	ErrInvalidColumnType:               "stc: invalid column type",
	ErrMismatchedLength:                "stc: mismatched length",
	ErrInvalidTableID:                  "stc: invalid table id",
	ErrNoTableName:                     "stc: no table name",
	ErrNoTableColumnNames:              "stc: no table column names",
	ErrNoTableColumnTypes:              "stc: no table column types",
	ErrInconsistentNamesAndTypesLength: "stc: inconsistent names and types length",
}

// Error implements the error interface.
func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return s
	}
	return fmt.Sprintf("stc: unknown error (%d)", uint(e))
}

// IOError wraps an underlying reader/writer error so callers can still
// compare against io.EOF and the other stdlib sentinels via errors.Is.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("stc: io: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return err
	}
	return &IOError{Err: err}
}
