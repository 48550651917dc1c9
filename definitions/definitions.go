// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package definitions parses the external schema-definition file that
// names a table and its columns so a raw stc.Table can be wrapped into
// a named.NamedTable.
package definitions

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/scdtools/stc"
)

// TableDefinition names one table and its columns: a table id's entry
// in a TableDefinitions registry.
type TableDefinition struct {
	Name    string
	Columns []string
	Types   []string
}

// TableDefinitions maps a table id to its schema.
type TableDefinitions map[uint16]TableDefinition

// Parse reads a schema-definition file: one definition per line,
// `id;name;col1,col2,...;type1,type2,...`. Blank lines and lines whose
// first non-whitespace characters are "//" are ignored. Duplicate ids:
// last definition wins.
func Parse(r io.Reader) (TableDefinitions, error) {
	defs := make(TableDefinitions)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		fields := strings.Split(line, ";")

		id, err := strconv.ParseUint(fields[0], 10, 16)
		if err != nil {
			return nil, stc.ErrInvalidTableID
		}

		if len(fields) < 2 || fields[1] == "" {
			return nil, stc.ErrNoTableName
		}
		name := fields[1]

		if len(fields) < 3 {
			return nil, stc.ErrNoTableColumnNames
		}
		columns := strings.Split(fields[2], ",")

		if len(fields) < 4 {
			return nil, stc.ErrNoTableColumnTypes
		}
		types := strings.Split(fields[3], ",")

		if len(columns) != len(types) {
			return nil, stc.ErrInconsistentNamesAndTypesLength
		}

		defs[uint16(id)] = TableDefinition{
			Name:    name,
			Columns: columns,
			Types:   types,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return defs, nil
}

// ParseString is a convenience wrapper over Parse for in-memory schema
// text (e.g. embedded test fixtures).
func ParseString(contents string) (TableDefinitions, error) {
	return Parse(strings.NewReader(contents))
}
