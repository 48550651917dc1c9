// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package named wraps a stc.Table with two lookup indexes — row id to
// row position, column name to column position — so callers can read
// typed cells by row id and column name instead of by position.
package named

import (
	"github.com/scdtools/stc"
	"github.com/scdtools/stc/definitions"
)

// NamedTable wraps a stc.Table with name- and id-based indices. It
// takes ownership of the wrapped table; there is no shared mutation.
type NamedTable struct {
	Name  string
	Table *stc.Table

	// idToIndex preserves row-insertion order so RowIDs iterates in
	// original row order, the way an ordered map would in languages
	// whose stdlib map type isn't insertion-ordered.
	idToIndex     map[int32]int
	rowIDOrder    []int32
	columnToIndex map[string]int
}

// FromDefinition builds a NamedTable from table and def. Every row's
// first cell must be an i32; a row whose first cell is not i32 fails
// with stc.ErrColumnNotFound (the row id column, not a named column,
// failed to resolve).
func FromDefinition(table *stc.Table, def definitions.TableDefinition) (*NamedTable, error) {
	columnToIndex := make(map[string]int, len(def.Columns))
	for i, name := range def.Columns {
		columnToIndex[name] = i
	}

	idToIndex := make(map[int32]int, len(table.Rows))
	order := make([]int32, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) == 0 {
			return nil, stc.ErrColumnNotFound
		}
		id, ok := row[0].AsI32()
		if !ok {
			return nil, stc.ErrColumnNotFound
		}
		if _, exists := idToIndex[id]; !exists {
			order = append(order, id)
		}
		idToIndex[id] = i // last insertion wins
	}

	return &NamedTable{
		Name:          def.Name,
		Table:         table,
		idToIndex:     idToIndex,
		rowIDOrder:    order,
		columnToIndex: columnToIndex,
	}, nil
}

// RowIDs returns row ids in original row order.
func (n *NamedTable) RowIDs() []int32 {
	out := make([]int32, len(n.rowIDOrder))
	copy(out, n.rowIDOrder)
	return out
}

func (n *NamedTable) resolve(rowID int32, columnName string) (row, column int, err error) {
	row, ok := n.idToIndex[rowID]
	if !ok {
		return 0, 0, stc.ErrRowNotFound
	}
	column, ok = n.columnToIndex[columnName]
	if !ok {
		return 0, 0, stc.ErrColumnNotFound
	}
	return row, column, nil
}

// Value reads the cell at (rowID, columnName) as T.
func Value[T stc.Scalar](n *NamedTable, rowID int32, columnName string) (T, error) {
	var zero T
	row, column, err := n.resolve(rowID, columnName)
	if err != nil {
		return zero, err
	}
	return stc.At[T](n.Table, row, column)
}

// Vector splits the string cell at (rowID, columnName) by sep and
// parses each piece as T.
func Vector[T stc.Scalar](n *NamedTable, rowID int32, columnName, sep string) ([]T, error) {
	row, column, err := n.resolve(rowID, columnName)
	if err != nil {
		return nil, err
	}
	return stc.Vector[T](n.Table, row, column, sep)
}

// Array is Vector with a required result length, failing with
// stc.ErrMismatchedLength if the parsed piece count doesn't match.
func Array[T stc.Scalar](n *NamedTable, rowID int32, columnName, sep string, length int) ([]T, error) {
	out, err := Vector[T](n, rowID, columnName, sep)
	if err != nil {
		return nil, err
	}
	if len(out) != length {
		return nil, stc.ErrMismatchedLength
	}
	return out, nil
}

// Map splits the string cell at (rowID, columnName) by pairSep, then
// each piece once by kvSep into a (key, value) pair.
func Map[K comparable, V stc.Scalar](n *NamedTable, rowID int32, columnName, pairSep, kvSep string) (map[K]V, error) {
	row, column, err := n.resolve(rowID, columnName)
	if err != nil {
		return nil, err
	}
	return stc.Map[K, V](n.Table, row, column, pairSep, kvSep)
}
