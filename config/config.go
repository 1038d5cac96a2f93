// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config holds the benchmark battery, comparison-target set, and
// harness settings. Configuration is fixed for the duration of a run: it is
// loaded once at startup and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoReference is returned when no target carries the reference role.
	ErrNoReference = errors.New("no reference target configured")

	// ErrMultipleReferences is returned when more than one target carries
	// the reference role.
	ErrMultipleReferences = errors.New("multiple reference targets configured")

	// ErrEmptyBattery is returned when the benchmark battery is empty.
	ErrEmptyBattery = errors.New("no benchmarks configured")
)

// RoleReference marks the comparison target whose score is checked against
// the recorded baseline and serves as the comparison point for every other
// target. Exactly one target must carry it.
const RoleReference = "reference"

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Target describes one runtime variant the battery is executed against.
type Target struct {
	// Name is the unique target identifier used in reports and logs.
	Name string `yaml:"name"`

	// Command is the invocation argv; the benchmark script path is appended
	// as the final argument.
	Command []string `yaml:"command"`

	// Extension is the source-file extension used to locate this target's
	// implementation of a benchmark (e.g. ".lua"). A benchmark with no
	// matching file for a target is skipped, not an error.
	Extension string `yaml:"extension"`

	// Role tags the target's function in comparisons. The only recognized
	// value is "reference"; all other targets compare against the reference
	// target's same-run score.
	Role string `yaml:"role,omitempty"`
}

// IsReference reports whether this target carries the reference role.
func (t Target) IsReference() bool {
	return t.Role == RoleReference
}

// Benchmark describes one workload program and its required output.
type Benchmark struct {
	// Name is the unique benchmark identifier; together with a target's
	// extension it names the script file inside the benchmark directory.
	Name string `yaml:"name"`

	// Expect is the exact multi-line output the workload must print before
	// its trailing "elapsed: <float>" line, one entry per line.
	Expect []string `yaml:"expect"`
}

// Opcodes holds the settings for the opcode telemetry pipeline.
type Opcodes struct {
	// Binary is the instrumented VM build that emits opcode count blocks.
	Binary string `yaml:"binary"`

	// Schema is the source file declaring the canonical opcode set via
	// REGOPCODE(NAME, ...) entries.
	Schema string `yaml:"schema"`

	// OutDir is the directory count reports are written to.
	OutDir string `yaml:"out_dir"`
}

// Config is the root configuration object.
//
// Thread Safety: treat as immutable after Load/Default.
type Config struct {
	// Trials is the number of timed executions per (benchmark, target) pair.
	Trials int `yaml:"trials"`

	// BenchmarkDir is the directory holding the benchmark scripts.
	BenchmarkDir string `yaml:"benchmark_dir"`

	// BaselineFile is the recorded-score store for the reference target.
	BaselineFile string `yaml:"baseline_file"`

	// TimesLog is the append-only raw trial times log. Empty disables it.
	TimesLog string `yaml:"times_log"`

	// TrialTimeout bounds a single trial. Zero disables the bound; a hung
	// child process then hangs the pipeline.
	TrialTimeout time.Duration `yaml:"trial_timeout"`

	// Parallelism is the number of non-reference (benchmark, target) pairs
	// run concurrently. The trial sequence inside a pair is always
	// sequential.
	Parallelism int `yaml:"parallelism"`

	Targets    []Target    `yaml:"targets"`
	Benchmarks []Benchmark `yaml:"benchmarks"`
	Opcodes    Opcodes     `yaml:"opcodes"`
}

// -----------------------------------------------------------------------------
// Loading
// -----------------------------------------------------------------------------

// Load reads a YAML file over the compiled-in defaults.
//
// Description:
//
//	Starts from Default() and overlays the file's fields. A missing file is
//	not an error: the defaults are used as-is. The result is validated.
//
// Inputs:
//   - path: YAML config path. May name a nonexistent file.
//
// Outputs:
//   - *Config: The effective configuration. Nil only on error.
//   - error: Parse or validation failure.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural invariants the harness depends on.
func (c *Config) Validate() error {
	if c.Trials <= 0 {
		return errors.New("trials must be positive")
	}
	if len(c.Benchmarks) == 0 {
		return ErrEmptyBattery
	}
	if c.Parallelism <= 0 {
		return errors.New("parallelism must be positive")
	}

	refs := 0
	for _, t := range c.Targets {
		if len(t.Command) == 0 {
			return fmt.Errorf("target %q has an empty command", t.Name)
		}
		if t.IsReference() {
			refs++
		}
	}
	switch {
	case refs == 0:
		return ErrNoReference
	case refs > 1:
		return ErrMultipleReferences
	}

	seen := make(map[string]struct{}, len(c.Benchmarks))
	for _, b := range c.Benchmarks {
		if b.Name == "" {
			return errors.New("benchmark with empty name")
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("duplicate benchmark %q", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Lookups
// -----------------------------------------------------------------------------

// Reference returns the target carrying the reference role.
func (c *Config) Reference() (Target, bool) {
	for _, t := range c.Targets {
		if t.IsReference() {
			return t, true
		}
	}
	return Target{}, false
}

// FindBenchmark returns the benchmark with the given name.
func (c *Config) FindBenchmark(name string) (Benchmark, bool) {
	for _, b := range c.Benchmarks {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// FindTarget returns the target with the given name.
func (c *Config) FindTarget(name string) (Target, bool) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// ScriptPath resolves a benchmark's implementation file for a target.
func (c *Config) ScriptPath(b Benchmark, t Target) string {
	return filepath.Join(c.BenchmarkDir, b.Name+t.Extension)
}
