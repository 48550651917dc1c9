// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package named

import (
	"testing"

	"github.com/scdtools/stc"
	"github.com/scdtools/stc/definitions"
)

func buildTable(t *testing.T) *stc.Table {
	t.Helper()
	table := stc.New(1)
	rows := []stc.Row{
		{stc.NewI32(10), stc.NewString("alice"), stc.NewString("1,2,3")},
		{stc.NewI32(20), stc.NewString("bob"), stc.NewString("4,5,6")},
		{stc.NewI32(10), stc.NewString("alice-renamed"), stc.NewString("7,8,9")},
	}
	for _, r := range rows {
		if err := table.AddRow(r); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func buildDef() definitions.TableDefinition {
	return definitions.TableDefinition{
		Name:    "users",
		Columns: []string{"id", "name", "tags"},
		Types:   []string{"i32", "string", "string"},
	}
}

func TestFromDefinitionRowOrderAndLastWins(t *testing.T) {
	n, err := FromDefinition(buildTable(t), buildDef())
	if err != nil {
		t.Fatal(err)
	}

	ids := n.RowIDs()
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 20 {
		t.Fatalf("want insertion-ordered unique ids [10 20], got %v", ids)
	}

	name, err := Value[string](n, 10, "name")
	if err != nil {
		t.Fatal(err)
	}
	if name != "alice-renamed" {
		t.Fatalf("want last-insertion-wins value, got %q", name)
	}
}

func TestNamedVectorAndArray(t *testing.T) {
	n, err := FromDefinition(buildTable(t), buildDef())
	if err != nil {
		t.Fatal(err)
	}

	tags, err := Vector[int32](n, 20, "tags", ",")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 3 || tags[0] != 4 {
		t.Fatalf("want [4 5 6], got %v", tags)
	}

	if _, err := Array[int32](n, 20, "tags", ",", 2); err != stc.ErrMismatchedLength {
		t.Fatalf("want ErrMismatchedLength, got %v", err)
	}
}

func TestNamedRowNotFound(t *testing.T) {
	n, err := FromDefinition(buildTable(t), buildDef())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Value[string](n, 999, "name"); err != stc.ErrRowNotFound {
		t.Fatalf("want ErrRowNotFound, got %v", err)
	}
}

func TestNamedColumnNotFound(t *testing.T) {
	n, err := FromDefinition(buildTable(t), buildDef())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Value[string](n, 10, "nope"); err != stc.ErrColumnNotFound {
		t.Fatalf("want ErrColumnNotFound, got %v", err)
	}
}

func TestFromDefinitionRejectsNonI32RowID(t *testing.T) {
	table := stc.New(1)
	table.Rows = append(table.Rows, stc.Row{stc.NewString("not an id")})
	if _, err := FromDefinition(table, buildDef()); err != stc.ErrColumnNotFound {
		t.Fatalf("want ErrColumnNotFound, got %v", err)
	}
}
