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

	"github.com/regvm/vmbench/config"
)

var (
	cfgPath string
	verbose bool

	// cfg is loaded and validated once before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vmbench",
	Short: "Benchmark harness and opcode telemetry for the regvm VM",
	Long: `vmbench runs the cross-language benchmark battery, tracks reference
performance against recorded baselines, and aggregates opcode execution
telemetry from instrumented VM builds.

Examples:
  vmbench run                   # Run the full battery
  vmbench run fib --graph       # One benchmark, with score distributions
  vmbench baseline generate     # Re-derive the recorded baselines
  vmbench opcodes count         # Capture per-benchmark opcode counts
  vmbench opcodes summary       # Aggregate counts into a TSV matrix`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "vmbench.yaml",
		"Path to the configuration file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))

		// Load validates, on both the defaults path and the file path.
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		return nil
	}

	rootCmd.AddCommand(runCmd, baselineCmd, opcodesCmd)
}
