// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmaptable opens an STC container by memory-mapping it rather
// than buffering it, for callers that convert large files and want to
// avoid a full read into the Go heap before stc.Deserialize runs.
package mmaptable

import (
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/scdtools/stc"
)

// File is a memory-mapped STC container: an io.ReadSeeker view over the
// mapped bytes, handed to stc.Deserialize without a copy.
type File struct {
	f   *os.File
	m   mmap.MMap
	rdr *bytes.Reader
}

// Open maps path read-only and returns a File ready for Table.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{
		f:   f,
		m:   m,
		rdr: bytes.NewReader(m),
	}, nil
}

// Read implements io.Reader over the mapped bytes.
func (mf *File) Read(p []byte) (int, error) {
	return mf.rdr.Read(p)
}

// Seek implements io.Seeker over the mapped bytes.
func (mf *File) Seek(offset int64, whence int) (int64, error) {
	return mf.rdr.Seek(offset, whence)
}

// Table decodes the mapped bytes as a single STC table, resetting the
// internal read position so Table can be called more than once.
func (mf *File) Table() (*stc.Table, error) {
	if _, err := mf.rdr.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return stc.Deserialize(mf)
}

// Close unmaps the file and closes the underlying descriptor.
func (mf *File) Close() error {
	unmapErr := mf.m.Unmap()
	closeErr := mf.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
