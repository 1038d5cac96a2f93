// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlockOutput = `program output line
 ========== OPCODE COUNTS ==========
Dispatches: 8
Opcode: LOADK (5)
Opcode: ADD (3)
Opcode: SUB (0)
 ===================================
more program output
 ========== OPCODE COUNTS ==========
Dispatches: 10
Opcode: LOADK (10)
 ===================================
`

func TestParseBlocks(t *testing.T) {
	t.Run("two blocks, zero counts dropped", func(t *testing.T) {
		blocks := ParseBlocks(twoBlockOutput)
		require.Len(t, blocks, 2)

		assert.Equal(t, int64(8), blocks[0].Dispatches)
		assert.Equal(t, map[string]int64{"LOADK": 5, "ADD": 3}, blocks[0].Counts)
		assert.NotContains(t, blocks[0].Counts, "SUB")

		assert.Equal(t, int64(10), blocks[1].Dispatches)
		assert.Equal(t, map[string]int64{"LOADK": 10}, blocks[1].Counts)
	})

	t.Run("no markers means no blocks", func(t *testing.T) {
		assert.Empty(t, ParseBlocks("just ordinary program output\n"))
	})

	t.Run("end of input closes an open block", func(t *testing.T) {
		out := " ========== OPCODE COUNTS ========== \nDispatches: 4\nOpcode: ADD (4)\n"
		blocks := ParseBlocks(out)
		require.Len(t, blocks, 1)
		assert.Equal(t, int64(4), blocks[0].Dispatches)
		assert.Equal(t, map[string]int64{"ADD": 4}, blocks[0].Counts)
	})

	t.Run("markers compare whitespace-trimmed", func(t *testing.T) {
		out := "========== OPCODE COUNTS ==========\nOpcode: ADD (1)\n===================================\n"
		blocks := ParseBlocks(out)
		require.Len(t, blocks, 1)
		assert.Equal(t, map[string]int64{"ADD": 1}, blocks[0].Counts)
	})

	t.Run("malformed dispatch defaults to zero", func(t *testing.T) {
		out := " ========== OPCODE COUNTS ========== \nDispatches: lots\nOpcode: ADD (2)\n =================================== \n"
		blocks := ParseBlocks(out)
		require.Len(t, blocks, 1)
		assert.Equal(t, int64(0), blocks[0].Dispatches)
		assert.Equal(t, map[string]int64{"ADD": 2}, blocks[0].Counts)
	})

	t.Run("negative counts dropped, malformed count lines skipped", func(t *testing.T) {
		out := " ========== OPCODE COUNTS ========== \nOpcode: SUB (-3)\nOpcode: garbage line\nOpcode: ADD (7)\n =================================== \n"
		blocks := ParseBlocks(out)
		require.Len(t, blocks, 1)
		assert.Equal(t, map[string]int64{"ADD": 7}, blocks[0].Counts)
	})
}

func TestSplitCapture(t *testing.T) {
	t.Run("first block is reference, last is benchmark", func(t *testing.T) {
		blocks := ParseBlocks(twoBlockOutput)
		capture, err := SplitCapture(blocks)
		require.NoError(t, err)
		assert.Equal(t, int64(8), capture.Reference.Dispatches)
		assert.Equal(t, int64(10), capture.Benchmark.Dispatches)
		assert.Equal(t, 2, capture.Blocks)
	})

	t.Run("middle blocks are ignored", func(t *testing.T) {
		blocks := []CountBlock{
			{Dispatches: 1},
			{Dispatches: 2},
			{Dispatches: 3},
		}
		capture, err := SplitCapture(blocks)
		require.NoError(t, err)
		assert.Equal(t, int64(1), capture.Reference.Dispatches)
		assert.Equal(t, int64(3), capture.Benchmark.Dispatches)
		assert.Equal(t, 3, capture.Blocks)
	})

	t.Run("fewer than two blocks is incomplete", func(t *testing.T) {
		_, err := SplitCapture(nil)
		require.ErrorIs(t, err, ErrIncompleteCapture)

		_, err = SplitCapture([]CountBlock{{Dispatches: 1}})
		require.ErrorIs(t, err, ErrIncompleteCapture)
	})
}
