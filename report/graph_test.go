// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regvm/vmbench/bench"
)

func TestRenderDistribution(t *testing.T) {
	t.Run("empty input renders nothing", func(t *testing.T) {
		assert.Empty(t, RenderDistribution(nil))
	})

	t.Run("fastest trial lands in the last cell", func(t *testing.T) {
		results := []*bench.PairResult{
			{Desc: "fib - regvm", Times: []float64{1.0}},
		}
		got := RenderDistribution(results)
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		require.Len(t, lines, 2)

		// Header carries the scale: 0 on the left, the top score right.
		assert.Contains(t, lines[0], "1000")

		row := lines[1]
		assert.True(t, strings.HasPrefix(row, "fib - regvm"))
		assert.Equal(t, byte('o'), row[len(row)-1])
	})

	t.Run("repeated hits deepen the cell", func(t *testing.T) {
		results := []*bench.PairResult{
			{Desc: "fib - regvm", Times: []float64{1.0, 1.0, 1.0, 1.0, 1.0}},
		}
		got := RenderDistribution(results)
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		row := lines[1]
		// Four or more hits saturate at '0'.
		assert.Equal(t, byte('0'), row[len(row)-1])
	})

	t.Run("rows share one scale", func(t *testing.T) {
		results := []*bench.PairResult{
			{Desc: "fib - regvm", Times: []float64{1.0}}, // score 1000
			{Desc: "fib - lua", Times: []float64{2.0}},   // score 500
		}
		got := RenderDistribution(results)
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		require.Len(t, lines, 3)

		fast := lines[1]
		slow := lines[2]
		assert.Equal(t, byte('o'), fast[len(fast)-1])
		// The slower target lands mid-scale, not at the end.
		assert.Equal(t, byte('-'), slow[len(slow)-1])
		assert.Contains(t, slow, "o")
	})
}
