// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regvm/vmbench/bench"
)

func TestTimesLog(t *testing.T) {
	t.Run("appends one line per pair", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "times.txt")
		log := NewTimesLog(path)

		require.NoError(t, log.Append("fib - regvm", []float64{0.5, 0.25}))
		require.NoError(t, log.Append("fib - lua", []float64{2}))

		got := readFile(t, path)
		assert.Equal(t, "fib - regvm: 0.5, 0.25, \nfib - lua: 2, \n", got)
	})

	t.Run("runs accumulate", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "times.txt")
		log := NewTimesLog(path)

		require.NoError(t, log.Append("fib - regvm", []float64{1}))
		require.NoError(t, log.Append("fib - regvm", []float64{2}))

		got := readFile(t, path)
		assert.Equal(t, "fib - regvm: 1, \nfib - regvm: 2, \n", got)
	})

	t.Run("observer records finished pairs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "times.txt")
		obs := NewTimesLog(path).Observer(nil)

		obs.PairFinished(&bench.PairResult{
			Desc:  "fib - regvm",
			Times: []float64{0.5},
		})
		obs.PairSkipped("fib", "lua", bench.ErrMissingScript)

		got := readFile(t, path)
		assert.Equal(t, "fib - regvm: 0.5, \n", got)
	})
}
