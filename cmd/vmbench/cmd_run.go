// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/regvm/vmbench/bench"
	"github.com/regvm/vmbench/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	runTrials   int      // Override the configured trial count
	runTargets  []string // Restrict the run to named targets
	runGraph    bool     // Draw score distributions after the run
	runHTMLOut  string   // Write an HTML chart page
	runParallel int      // Override the configured pair parallelism
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// runCmd executes the benchmark battery.
//
// # Description
//
// Runs every configured benchmark (or just the named one) against every
// configured target, validates each trial's output, and prints one classified
// result line per (benchmark, target) pair. The reference target is compared
// against its recorded baseline; every other target against the reference
// target's score from the same run.
//
// # Examples
//
//	vmbench run                       # Full battery
//	vmbench run fib                   # One benchmark
//	vmbench run -t regvm -t lua       # Restrict targets
//	vmbench run --graph               # Score distributions after each result
//	vmbench run --output-html out.html
var runCmd = &cobra.Command{
	Use:   "run [benchmark]",
	Short: "Run the benchmark battery",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunCommand,
}

func init() {
	runCmd.Flags().IntVar(&runTrials, "trials", 0,
		"Override the configured trial count")
	runCmd.Flags().StringArrayVarP(&runTargets, "target", "t", nil,
		"Run only the named target (repeatable)")
	runCmd.Flags().BoolVar(&runGraph, "graph", false,
		"Draw per-trial score distributions")
	runCmd.Flags().StringVar(&runHTMLOut, "output-html", "",
		"Write the results chart to an HTML file")
	runCmd.Flags().IntVar(&runParallel, "parallel", 0,
		"Override the configured pair parallelism")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runRunCommand(cmd *cobra.Command, args []string) error {
	if runTrials > 0 {
		cfg.Trials = runTrials
	}
	if runParallel > 0 {
		cfg.Parallelism = runParallel
	}

	benchmark := ""
	if len(args) == 1 {
		benchmark = args[0]
	}

	observers := []bench.Observer{report.NewConsoleObserver(os.Stdout)}
	if cfg.TimesLog != "" {
		observers = append(observers, report.NewTimesLog(cfg.TimesLog).Observer(slog.Default()))
	}
	harness := bench.NewHarness(cfg,
		bench.WithObserver(bench.CombineObservers(observers...)),
	)

	session, err := harness.Run(cmd.Context(), bench.RunOptions{
		Benchmark: benchmark,
		Targets:   runTargets,
	})
	if err != nil {
		return err
	}

	if runGraph {
		for _, name := range session.Benchmarks() {
			fmt.Print(report.RenderDistribution(session.Results(name)))
		}
	}
	if runHTMLOut != "" {
		if err := report.WriteHTMLReport(runHTMLOut, session); err != nil {
			return err
		}
		fmt.Println("Wrote HTML report:", runHTMLOut)
	}
	return nil
}
