// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command catchdata recovers the per-table JSON snapshots embedded in a
// captured data dump: XOR-decrypt, gzip-decompress, then split each
// line's JSON object into one pretty-printed file per key, alongside
// the input file.
package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var key = []byte("c88d016d261eb80ce4d6e41a510d4048")

var log = logrus.New()

func main() {
	flag.Parse()
	for _, path := range flag.Args() {
		if err := parse(path); err != nil {
			log.WithError(err).WithField("path", path).Error("catchdata failed")
			os.Exit(1)
		}
	}
}

func parse(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decrypted := make([]byte, len(raw))
	for i, b := range raw {
		decrypted[i] = b ^ key[i%len(key)]
	}

	gz, err := gzip.NewReader(bytes.NewReader(decrypted))
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer gz.Close()

	dir := filepath.Dir(path)
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(nil, 64*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entries map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &entries); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}

		for key, entry := range entries {
			pretty, err := prettyJSON(entry)
			if err != nil {
				return fmt.Errorf("format %s: %w", key, err)
			}
			outPath := filepath.Join(dir, key+".json")
			if err := os.WriteFile(outPath, pretty, 0o644); err != nil {
				return err
			}
			log.WithField("file", outPath).Info("wrote snapshot")
		}
	}
	return scanner.Err()
}

func prettyJSON(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
