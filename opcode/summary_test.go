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
)

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(map[string]map[string]int64{
		"fib": {"LOADK": 10, "ADD": 5},
		"for": {"LOADK": 3, "JUMP": 7, "NOP": 0},
	})

	t.Run("rows and columns are lexicographic", func(t *testing.T) {
		assert.Equal(t, []string{"ADD", "JUMP", "LOADK"}, m.Opcodes())
		assert.Equal(t, []string{"fib", "for"}, m.Benchmarks())
	})

	t.Run("cells default to zero", func(t *testing.T) {
		assert.Equal(t, int64(5), m.Count("ADD", "fib"))
		assert.Equal(t, int64(0), m.Count("ADD", "for"))
		assert.Equal(t, int64(0), m.Count("JUMP", "fib"))
		assert.Equal(t, int64(0), m.Count("MUL", "fib"))
	})

	t.Run("non-positive counts are dropped entirely", func(t *testing.T) {
		assert.NotContains(t, m.Opcodes(), "NOP")
		assert.Equal(t, int64(0), m.Count("NOP", "for"))
	})

	t.Run("totals per benchmark", func(t *testing.T) {
		assert.Equal(t, int64(15), m.Total("fib"))
		assert.Equal(t, int64(10), m.Total("for"))
		assert.Equal(t, int64(0), m.Total("missing"))
	})
}

func TestBuildMatrixEmpty(t *testing.T) {
	m := BuildMatrix(nil)
	assert.Empty(t, m.Opcodes())
	assert.Empty(t, m.Benchmarks())
}
