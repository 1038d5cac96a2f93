// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regvm/vmbench/bench"
	"github.com/regvm/vmbench/report"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage recorded baseline scores",
}

// baselineGenerateCmd re-derives every baseline score.
//
// # Description
//
// Runs the full battery once against the reference target at the standard
// trial count and replaces the baseline file wholesale. Benchmarks that fail
// are recorded with the missing sentinel so the battery and the file stay
// aligned.
//
// Generate a baseline before a VM change, then compare after the change; the
// before/after ratio is how improvements and regressions are tracked.
var baselineGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Re-derive the baseline from a fresh reference run",
	Args:  cobra.NoArgs,
	RunE:  runBaselineGenerate,
}

func init() {
	baselineCmd.AddCommand(baselineGenerateCmd)
}

func runBaselineGenerate(cmd *cobra.Command, args []string) error {
	fmt.Println("generating baseline")

	harness := bench.NewHarness(cfg,
		bench.WithObserver(report.NewConsoleObserver(os.Stdout)),
	)
	if err := harness.RegenerateBaseline(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Baseline written:", cfg.BaselineFile)
	return nil
}
