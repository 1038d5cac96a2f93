// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.Trials)
	assert.NotEmpty(t, cfg.Benchmarks)

	ref, ok := cfg.Reference()
	require.True(t, ok)
	assert.Equal(t, ".rvm", ref.Extension)

	// Every benchmark carries a non-empty expected output block.
	for _, b := range cfg.Benchmarks {
		assert.NotEmpty(t, b.Expect, "benchmark %s", b.Name)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default().Trials, cfg.Trials)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vmbench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trials: 5\nparallelism: 4\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Trials)
		assert.Equal(t, 4, cfg.Parallelism)
		// Untouched sections keep their defaults.
		assert.Equal(t, Default().BenchmarkDir, cfg.BenchmarkDir)
		assert.Len(t, cfg.Benchmarks, len(Default().Benchmarks))
	})

	t.Run("invalid file is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vmbench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trials: -1\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vmbench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trials: [\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Trials:      1,
			Parallelism: 1,
			Targets: []Target{
				{Name: "ref", Command: []string{"ref"}, Extension: ".x", Role: RoleReference},
			},
			Benchmarks: []Benchmark{{Name: "b", Expect: []string{"1"}}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("no reference target", func(t *testing.T) {
		cfg := valid()
		cfg.Targets[0].Role = ""
		require.ErrorIs(t, cfg.Validate(), ErrNoReference)
	})

	t.Run("multiple reference targets", func(t *testing.T) {
		cfg := valid()
		cfg.Targets = append(cfg.Targets, Target{
			Name: "ref2", Command: []string{"ref2"}, Extension: ".y", Role: RoleReference,
		})
		require.ErrorIs(t, cfg.Validate(), ErrMultipleReferences)
	})

	t.Run("empty battery", func(t *testing.T) {
		cfg := valid()
		cfg.Benchmarks = nil
		require.ErrorIs(t, cfg.Validate(), ErrEmptyBattery)
	})

	t.Run("duplicate benchmark", func(t *testing.T) {
		cfg := valid()
		cfg.Benchmarks = append(cfg.Benchmarks, Benchmark{Name: "b"})
		require.Error(t, cfg.Validate())
	})

	t.Run("zero trials", func(t *testing.T) {
		cfg := valid()
		cfg.Trials = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("empty target command", func(t *testing.T) {
		cfg := valid()
		cfg.Targets[0].Command = nil
		require.Error(t, cfg.Validate())
	})
}

func TestScriptPath(t *testing.T) {
	cfg := &Config{BenchmarkDir: filepath.Join("test", "benchmark")}
	b := Benchmark{Name: "fib"}
	target := Target{Extension: ".lua"}
	assert.Equal(t, filepath.Join("test", "benchmark", "fib.lua"), cfg.ScriptPath(b, target))
}
