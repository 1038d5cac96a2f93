// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regvm/vmbench/opcode"
)

func TestParseCountsFile(t *testing.T) {
	t.Run("block format with benchmark line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "whatever.txt")
		content := "========== OPCODE COUNTS (BENCHMARK) ==========\n" +
			"Benchmark: fib\n" +
			"Dispatches: 11\n" +
			"Opcode: LOADK (9)\n" +
			"Opcode: JUMP (2)\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		name, counts, err := ParseCountsFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fib", name)
		assert.Equal(t, map[string]int64{"LOADK": 9, "JUMP": 2}, counts)
	})

	t.Run("plain format with filename fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "for_opcode_counts.txt")
		content := "Total: 100\nLOADK: 60\nCALL_0: 40\nDispatches: 100\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		name, counts, err := ParseCountsFile(path)
		require.NoError(t, err)
		assert.Equal(t, "for", name)
		assert.Equal(t, map[string]int64{"LOADK": 60, "CALL_0": 40}, counts)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ParseCountsFile(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
	})
}

func TestCollectCounts(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"baseline.txt":          "Opcode: LOADK (999)\n", // reference trace, skipped
		"fib_opcode_counts.txt": "Benchmark: fib\nOpcode: LOADK (9)\n",
		"for_opcode_counts.txt": "Benchmark: for\nOpcode: JUMP (7)\n",
		"notes.md":              "not a count file",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	all, err := CollectCounts(dir)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(9), all["fib"]["LOADK"])
	assert.Equal(t, int64(7), all["for"]["JUMP"])
}

func TestWriteMatrixTSV(t *testing.T) {
	m := opcode.BuildMatrix(map[string]map[string]int64{
		"fib": {"LOADK": 10, "ADD": 5},
		"for": {"LOADK": 3, "JUMP": 7},
	})

	path := filepath.Join(t.TempDir(), "summary", "opcode_summary.tsv")
	require.NoError(t, WriteMatrixTSV(path, m))

	got := readFile(t, path)
	want := "Opcode\tfib\tfor\n" +
		"ADD\t5\t0\n" +
		"JUMP\t0\t7\n" +
		"LOADK\t10\t3\n" +
		"TOTAL\t15\t10\n"
	assert.Equal(t, want, got)
}
