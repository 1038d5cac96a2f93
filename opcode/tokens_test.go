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

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	reg, err := ParseRegistry("REGOPCODE(LOADK, 1)\nREGOPCODE(ADD, 2)\nREGOPCODE(CALL_0, 3)\n")
	require.NoError(t, err)
	return NewNormalizer(reg)
}

func TestNormalizerCanonical(t *testing.T) {
	n := testNormalizer(t)

	for _, spelling := range []string{"LOADK", "OP_LOADK", "op_LOADK"} {
		name, ok := n.Canonical(spelling)
		require.True(t, ok, spelling)
		assert.Equal(t, "LOADK", name)
	}

	_, ok := n.Canonical("MUL")
	assert.False(t, ok)
}

func TestCountLine(t *testing.T) {
	t.Run("all three spellings fold together", func(t *testing.T) {
		n := testNormalizer(t)
		counts := make(map[string]int64)
		matched := n.CountLine("LOADK OP_ADD op_LOADK CALL_0", counts)
		assert.Equal(t, 4, matched)
		assert.Equal(t, map[string]int64{"LOADK": 2, "ADD": 1, "CALL_0": 1}, counts)
	})

	t.Run("whole tokens only", func(t *testing.T) {
		n := testNormalizer(t)
		counts := make(map[string]int64)
		matched := n.CountLine("XLOADK LOADKX RELOADKING", counts)
		assert.Zero(t, matched)
		assert.Empty(t, counts)
	})

	t.Run("case-insensitive fallback when nothing matches exactly", func(t *testing.T) {
		n := testNormalizer(t)
		counts := make(map[string]int64)
		matched := n.CountLine("trace: loadk then Add", counts)
		assert.Equal(t, 2, matched)
		assert.Equal(t, map[string]int64{"LOADK": 1, "ADD": 1}, counts)
	})

	t.Run("exact matches suppress the fallback", func(t *testing.T) {
		n := testNormalizer(t)
		counts := make(map[string]int64)
		matched := n.CountLine("LOADK loadk", counts)
		assert.Equal(t, 1, matched)
		assert.Equal(t, map[string]int64{"LOADK": 1}, counts)
	})

	t.Run("accumulates across lines", func(t *testing.T) {
		n := testNormalizer(t)
		counts := make(map[string]int64)
		n.CountLine("LOADK", counts)
		n.CountLine("LOADK ADD", counts)
		assert.Equal(t, map[string]int64{"LOADK": 2, "ADD": 1}, counts)
	})
}
