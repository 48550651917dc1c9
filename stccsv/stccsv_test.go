// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stccsv

import (
	"bytes"
	"testing"

	"github.com/scdtools/stc"
	"github.com/scdtools/stc/definitions"
	"github.com/scdtools/stc/named"
)

func TestWriteReadRoundTrip(t *testing.T) {
	table := stc.New(3)
	rows := []stc.Row{
		{stc.NewI32(1), stc.NewString("alpha"), stc.NewF64(1.5)},
		{stc.NewI32(2), stc.NewString("beta"), stc.NewF64(-2.25)},
	}
	for _, r := range rows {
		if err := table.AddRow(r); err != nil {
			t.Fatal(err)
		}
	}

	buf := &bytes.Buffer{}
	if err := Write(buf, table, []string{"id", "name", "score"}); err != nil {
		t.Fatal(err)
	}

	got, err := Read(buf, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got.Rows))
	}
	id, err := stc.At[int32](got, 1, 0)
	if err != nil || id != 2 {
		t.Fatalf("row 1 id: want 2, got %v (err %v)", id, err)
	}
	name, err := stc.At[string](got, 0, 1)
	if err != nil || name != "alpha" {
		t.Fatalf("row 0 name: want alpha, got %v (err %v)", name, err)
	}
}

func TestReadUnknownType(t *testing.T) {
	const csv = "id,x\ni32,notatype\n1,foo\n"
	if _, err := Read(bytes.NewBufferString(csv), 1); err != stc.ErrInvalidColumnType {
		t.Fatalf("want ErrInvalidColumnType, got %v", err)
	}
}

func TestReadConversionFailure(t *testing.T) {
	const csv = "id,n\ni32,i32\n1,notanumber\n"
	if _, err := Read(bytes.NewBufferString(csv), 1); err != stc.ErrValueConversionFailed {
		t.Fatalf("want ErrValueConversionFailed, got %v", err)
	}
}

func TestNamedRoundTrip(t *testing.T) {
	def := definitions.TableDefinition{
		Name:    "users",
		Columns: []string{"id", "name"},
		Types:   []string{"i32", "string"},
	}

	table := stc.New(5)
	if err := table.AddRow(stc.Row{stc.NewI32(1), stc.NewString("alice")}); err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	n, err := named.FromDefinition(table, def)
	if err != nil {
		t.Fatal(err)
	}
	if err := NamedWrite(buf, n, def); err != nil {
		t.Fatal(err)
	}

	got, err := NamedRead(buf, 5, def)
	if err != nil {
		t.Fatal(err)
	}
	name, err := named.Value[string](got, 1, "name")
	if err != nil || name != "alice" {
		t.Fatalf("want alice, got %v (err %v)", name, err)
	}
}
