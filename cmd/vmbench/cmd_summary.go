// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regvm/vmbench/opcode"
	"github.com/regvm/vmbench/report"
)

var (
	summaryDir string // Count report directory to aggregate
	summaryOut string // TSV output path
)

// opcodesSummaryCmd aggregates count reports into one matrix.
//
// # Description
//
// Reads every per-benchmark count report in the output directory (the
// reference trace is skipped) and writes a benchmark × opcode frequency
// matrix as TSV: one row per opcode, one column per benchmark, a TOTAL row
// at the bottom. Rows and columns are lexicographically ordered so the same
// inputs always produce the same file.
var opcodesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate count reports into a TSV frequency matrix",
	Args:  cobra.NoArgs,
	RunE:  runOpcodesSummary,
}

func init() {
	opcodesSummaryCmd.Flags().StringVar(&summaryDir, "dir", "",
		"Count report directory (default from configuration)")
	opcodesSummaryCmd.Flags().StringVar(&summaryOut, "out", "data/opcode_summary.tsv",
		"TSV output path")
}

func runOpcodesSummary(cmd *cobra.Command, args []string) error {
	dir := summaryDir
	if dir == "" {
		dir = cfg.Opcodes.OutDir
	}

	all, err := report.CollectCounts(dir)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no opcode count files found in %s", dir)
	}

	matrix := opcode.BuildMatrix(all)
	if err := report.WriteMatrixTSV(summaryOut, matrix); err != nil {
		return err
	}
	fmt.Println("Opcode summary written to:", summaryOut)
	return nil
}
