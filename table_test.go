// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stc

import (
	"bytes"
	"os"
	"testing"
)

// tempTableFile returns a scratch *os.File usable as both io.WriteSeeker
// and io.ReadSeeker, since Table round trips need seek support that
// bytes.Buffer alone doesn't provide.
func tempTableFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stc-table-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestEmptyTableRoundTrip(t *testing.T) {
	table := New(1)
	f := tempTableFile(t)

	if err := table.Serialize(f); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00}
	if !bytes.Equal(raw, want) {
		t.Fatalf("empty table bytes: want % x got % x", want, raw)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	got, err := Deserialize(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 || len(got.Rows) != 0 {
		t.Fatalf("want empty table id 1, got %+v", got)
	}
}

func TestSingleRowRoundTrip(t *testing.T) {
	table := New(7)
	row := Row{NewI32(1), NewString("alpha"), NewF64(1.5)}
	if err := table.AddRow(row); err != nil {
		t.Fatal(err)
	}

	f := tempTableFile(t)
	if err := table.Serialize(f); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	got, err := Deserialize(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 7 || len(got.Rows) != 1 {
		t.Fatalf("want table id 7 with 1 row, got %+v", got)
	}

	id, err := At[int32](got, 0, 0)
	if err != nil || id != 1 {
		t.Fatalf("row id: want 1, got %v (err %v)", id, err)
	}
	s, err := At[string](got, 0, 1)
	if err != nil || s != "alpha" {
		t.Fatalf("col 1: want alpha, got %v (err %v)", s, err)
	}
	fl, err := At[float64](got, 0, 2)
	if err != nil || fl != 1.5 {
		t.Fatalf("col 2: want 1.5, got %v (err %v)", fl, err)
	}
}

func TestManyRowsJumpTable(t *testing.T) {
	table := New(2)
	for i := int32(0); i < 250; i++ {
		if err := table.AddRow(Row{NewI32(i), NewU8(uint8(i % 256))}); err != nil {
			t.Fatal(err)
		}
	}

	f := tempTableFile(t)
	if err := table.Serialize(f); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	got, err := Deserialize(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 250 {
		t.Fatalf("want 250 rows, got %d", len(got.Rows))
	}
	last, err := At[int32](got, 249, 0)
	if err != nil || last != 249 {
		t.Fatalf("last row id: want 249, got %v (err %v)", last, err)
	}
}

func TestAddRowTooManyColumns(t *testing.T) {
	table := New(1)
	row := make(Row, maxColumns+1)
	row[0] = NewI32(1)
	for i := 1; i < len(row); i++ {
		row[i] = NewU8(0)
	}
	if err := table.AddRow(row); err != ErrTooManyColumns {
		t.Fatalf("want ErrTooManyColumns, got %v", err)
	}
}

func TestAddRowInvalidRowID(t *testing.T) {
	table := New(1)
	if err := table.AddRow(Row{NewString("not an id")}); err != ErrInvalidRowID {
		t.Fatalf("want ErrInvalidRowID, got %v", err)
	}
	if err := table.AddRow(Row{}); err != ErrInvalidRowID {
		t.Fatalf("want ErrInvalidRowID on empty row, got %v", err)
	}
}

func TestAddRowInconsistentLength(t *testing.T) {
	table := New(1)
	if err := table.AddRow(Row{NewI32(1), NewU8(1)}); err != nil {
		t.Fatal(err)
	}
	if err := table.AddRow(Row{NewI32(2)}); err != ErrInconsistentRowLength {
		t.Fatalf("want ErrInconsistentRowLength, got %v", err)
	}
}

func TestAddRowTooManyRows(t *testing.T) {
	table := &Table{ID: 1, Rows: make([]Row, maxRows)}
	for i := range table.Rows {
		table.Rows[i] = Row{NewI32(int32(i))}
	}
	if err := table.AddRow(Row{NewI32(int32(maxRows))}); err != ErrTooManyRows {
		t.Fatalf("want ErrTooManyRows, got %v", err)
	}
}

func TestDeserializeLastBlockSizeMismatch(t *testing.T) {
	table := New(1)
	if err := table.AddRow(Row{NewI32(1)}); err != nil {
		t.Fatal(err)
	}

	f := tempTableFile(t)
	if err := table.Serialize(f); err != nil {
		t.Fatal(err)
	}

	// Corrupt the LBS field directly.
	if _, err := f.WriteAt([]byte{0xFF, 0xFF}, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	if _, err := Deserialize(f); err != ErrLastBlockSizeMismatch {
		t.Fatalf("want ErrLastBlockSizeMismatch, got %v", err)
	}
}

func TestVectorAndMap(t *testing.T) {
	table := New(1)
	row := Row{NewI32(1), NewString("1,2,3"), NewString("a=1,b=2")}
	if err := table.AddRow(row); err != nil {
		t.Fatal(err)
	}

	vec, err := Vector[int32](table, 0, 1, ",")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 || vec[0] != 1 || vec[2] != 3 {
		t.Fatalf("vector: got %v", vec)
	}

	m, err := Map[string, int32](table, 0, 2, ",", "=")
	if err != nil {
		t.Fatal(err)
	}
	if m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("map: got %v", m)
	}
}
