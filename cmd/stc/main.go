// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command stc converts STC containers to CSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scdtools/stc"
	"github.com/scdtools/stc/definitions"
	"github.com/scdtools/stc/internal/start"
	"github.com/scdtools/stc/stccsv"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stc",
		Short: "Convert STC containers to CSV",
	}
	root.AddCommand(newConvertCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var defPath string
	var del bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert each .stc FILE to a CSV file next to it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var defs definitions.TableDefinitions
			if defPath != "" {
				f, err := os.Open(defPath)
				if err != nil {
					return fmt.Errorf("open definitions: %w", err)
				}
				defer f.Close()
				defs, err = definitions.Parse(f)
				if err != nil {
					return fmt.Errorf("parse definitions: %w", err)
				}
			}

			return start.Start(context.Background(), 5*time.Second, func(ctx context.Context) error {
				return runConvert(ctx, args, defs, del, jobs)
			})
		},
	}

	cmd.Flags().StringVar(&defPath, "def", "", "path to a table-definitions file used to name CSV output files and columns")
	cmd.Flags().BoolVar(&del, "del", false, "delete the source file after a successful conversion")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(), "number of files to convert concurrently")

	return cmd
}

// runConvert converts every path in paths, skipping non-files with a
// warning. It returns an error only when every attempted conversion
// failed; a partially successful batch exits 0, matching the CLI's
// "don't let one bad input file fail the whole run" contract.
func runConvert(ctx context.Context, paths []string, defs definitions.TableDefinitions, del bool, jobs int) error {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			color.Yellow("Skipping: %s", path)
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		return nil
	}

	jobList := make([]start.Job, len(files))
	for i, path := range files {
		path := path
		jobList[i] = func(ctx context.Context) error {
			return convertOne(path, defs, del)
		}
	}

	errs := start.RunJobs(ctx, jobs, jobList)

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
		}
	}
	if failures == len(errs) {
		return fmt.Errorf("all %d conversions failed: %w", failures, errors.Join(errs...))
	}
	return nil
}

func convertOne(path string, defs definitions.TableDefinitions, del bool) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".stc" {
		return nil
	}

	color.Cyan("Parsing: %s", path)
	outPath, err := stcToCSV(path, defs)
	if err != nil {
		color.Red("FAIL %s: %v", path, err)
		return err
	}

	color.Green("OK   %s -> %s", path, outPath)
	log.WithFields(logrus.Fields{"src": path, "dst": outPath}).Info("converted")

	if del {
		color.Yellow("Deleting %s", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}
	return nil
}

// stcToCSV deserializes the STC container at path and writes it as CSV
// next to it, returning the output path written. The output is named
// "<id>_<name>.csv" when defs resolves the table's id to a definition,
// or "<input-stem>.csv" when the id is unknown.
func stcToCSV(path string, defs definitions.TableDefinitions) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	t, err := stc.Deserialize(in)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	var columnNames []string
	outName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".csv"
	if def, ok := defs[t.ID]; ok {
		columnNames = def.Columns
		outName = fmt.Sprintf("%d_%s.csv", t.ID, def.Name)
	}
	outPath := filepath.Join(dir, outName)

	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := stccsv.Write(out, t, columnNames); err != nil {
		return "", err
	}
	return outPath, nil
}
