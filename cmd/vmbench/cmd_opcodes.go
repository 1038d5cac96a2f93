// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regvm/vmbench/bench"
	"github.com/regvm/vmbench/config"
	"github.com/regvm/vmbench/opcode"
	"github.com/regvm/vmbench/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	opcodesBinary string // Instrumented VM binary
	opcodesSchema string // Opcode schema source
	opcodesOutDir string // Report output directory
	opcodesLimit  int    // Cap on benchmarks to run (count only)
	opcodesOut    string // Single-report output path (trace only)
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var opcodesCmd = &cobra.Command{
	Use:   "opcodes",
	Short: "Capture and aggregate opcode execution telemetry",
}

// opcodesCountCmd runs the battery under the instrumented binary.
//
// # Description
//
// Executes every benchmark script once with the count-instrumented VM build.
// Each run prints delimited count blocks; the first block is the fixed
// reference trace (recorded once), the last is the benchmark's own trace
// (recorded per benchmark, with a NOT APPEARING section for the coverage gap
// against the canonical opcode registry).
//
// A run that produces fewer than two blocks is reported and skipped; the
// remaining benchmarks still run.
var opcodesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Capture per-benchmark opcode counts from instrumented runs",
	Args:  cobra.NoArgs,
	RunE:  runOpcodesCount,
}

// opcodesTraceCmd counts opcodes from one script's full instruction trace.
//
// # Description
//
// Runs a single script under a trace-instrumented build that prints every
// executed opcode, and tallies the canonical opcodes line by line as the
// process emits them. Output is streamed; memory stays bounded no matter how
// long the trace runs.
var opcodesTraceCmd = &cobra.Command{
	Use:   "trace <script>",
	Short: "Count executed opcodes from a full instruction trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpcodesTrace,
}

// opcodesClassesCmd tallies class-operation markers from one run.
//
// # Description
//
// Runs a single script under the instrumented build and counts every
// "[ClassName: number]" marker it prints, reporting the tally as a table
// sorted by descending count.
var opcodesClassesCmd = &cobra.Command{
	Use:   "classes <script>",
	Short: "Count class operation markers from an instrumented run",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpcodesClasses,
}

func init() {
	opcodesCmd.PersistentFlags().StringVar(&opcodesBinary, "binary", "",
		"Instrumented VM binary (default from configuration)")
	opcodesCmd.PersistentFlags().StringVar(&opcodesSchema, "schema", "",
		"Opcode schema source (default from configuration)")

	opcodesCountCmd.Flags().StringVar(&opcodesOutDir, "out-dir", "",
		"Report output directory (default from configuration)")
	opcodesCountCmd.Flags().IntVar(&opcodesLimit, "limit", 0,
		"Run at most N benchmarks")

	opcodesTraceCmd.Flags().StringVar(&opcodesOut, "out", "",
		"Report output path (default <out-dir>/<script>_opcode_counts.txt)")

	opcodesCmd.AddCommand(opcodesCountCmd, opcodesTraceCmd, opcodesClassesCmd, opcodesSummaryCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func opcodesSettings() config.Opcodes {
	settings := cfg.Opcodes
	if opcodesBinary != "" {
		settings.Binary = opcodesBinary
	}
	if opcodesSchema != "" {
		settings.Schema = opcodesSchema
	}
	if opcodesOutDir != "" {
		settings.OutDir = opcodesOutDir
	}
	return settings
}

func runOpcodesCount(cmd *cobra.Command, args []string) error {
	settings := opcodesSettings()

	// Setup failures are fatal; per-benchmark failures below are not.
	if _, err := os.Stat(settings.Binary); err != nil {
		return fmt.Errorf("instrumented binary not found: %s (build it first)", settings.Binary)
	}

	reg, err := opcode.LoadRegistry(settings.Schema)
	if err != nil {
		return err
	}

	reference, ok := cfg.Reference()
	if !ok {
		return config.ErrNoReference
	}

	runner := bench.NewRunner(bench.WithTrialTimeout(cfg.TrialTimeout))
	referenceWritten := false
	found := 0
	ran := 0

	for _, b := range cfg.Benchmarks {
		if opcodesLimit > 0 && ran >= opcodesLimit {
			break
		}

		script := cfg.ScriptPath(b, reference)
		if _, err := os.Stat(script); err != nil {
			continue
		}
		found++

		fmt.Printf("Running %s...\n", b.Name)
		out, err := runner.RunTrial(cmd.Context(), []string{settings.Binary}, script)
		if err != nil {
			slog.Warn("instrumented run failed",
				slog.String("benchmark", b.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		capture, err := opcode.SplitCapture(opcode.ParseBlocks(out))
		if err != nil {
			if errors.Is(err, opcode.ErrIncompleteCapture) {
				fmt.Printf("  Warning: no complete capture for %s. Skipping.\n", b.Name)
				continue
			}
			return err
		}

		if !referenceWritten {
			path := filepath.Join(settings.OutDir, "baseline.txt")
			if err := report.WriteReferenceTrace(path, capture.Reference, reg); err != nil {
				return err
			}
			referenceWritten = true
		}

		path := filepath.Join(settings.OutDir, b.Name+"_opcode_counts.txt")
		if err := report.WriteBenchmarkCounts(path, b.Name, capture.Benchmark, reg); err != nil {
			return err
		}
		fmt.Println("  ->", path)
		ran++
	}

	if found == 0 {
		return fmt.Errorf("no benchmark scripts found in %s", cfg.BenchmarkDir)
	}

	fmt.Println("Done.")
	fmt.Println("Outputs in:", settings.OutDir)
	return nil
}

func runOpcodesClasses(cmd *cobra.Command, args []string) error {
	settings := opcodesSettings()
	script := args[0]

	if _, err := os.Stat(settings.Binary); err != nil {
		return fmt.Errorf("instrumented binary not found: %s (build it first)", settings.Binary)
	}
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script not found: %s", script)
	}

	fmt.Printf("Running %s with %s...\n", script, filepath.Base(settings.Binary))

	runner := bench.NewRunner(bench.WithTrialTimeout(cfg.TrialTimeout))
	out, err := runner.RunTrial(cmd.Context(), []string{settings.Binary}, script)
	if err != nil {
		return err
	}

	fmt.Print(report.FormatClassOps(opcode.CountClassOps(out)))
	return nil
}

func runOpcodesTrace(cmd *cobra.Command, args []string) error {
	settings := opcodesSettings()
	script := args[0]

	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script not found: %s", script)
	}

	reg, err := opcode.LoadRegistry(settings.Schema)
	if err != nil {
		return err
	}
	normalizer := opcode.NewNormalizer(reg)

	// Stream the trace through a pipe so counting keeps pace with the
	// process instead of buffering the whole trace.
	pr, pw := io.Pipe()
	proc := exec.CommandContext(cmd.Context(), settings.Binary, script)
	proc.Stdout = pw
	proc.Stderr = pw

	if err := proc.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("starting %s: %w", settings.Binary, err)
	}
	go func() {
		pw.CloseWithError(proc.Wait())
	}()

	counts, err := opcode.CountStream(pr, normalizer)
	if err != nil {
		var exit *exec.ExitError
		if !errors.As(err, &exit) {
			return err
		}
	}

	out := opcodesOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(script), filepath.Ext(script))
		out = filepath.Join(settings.OutDir, base+"_opcode_counts.txt")
	}
	if err := report.WriteStreamCounts(out, counts, reg); err != nil {
		return err
	}
	fmt.Println("Wrote opcode count report:", out)
	return nil
}
