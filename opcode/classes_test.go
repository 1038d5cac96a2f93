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

func TestCountClassOps(t *testing.T) {
	t.Run("tallies repeated markers", func(t *testing.T) {
		out := "noise [Point: 2] more [List: 10]\n[Point: 2] trailing\n"
		counts := CountClassOps(out)
		assert.Equal(t, map[ClassOp]int{
			{Class: "Point", Number: "2"}: 2,
			{Class: "List", Number: "10"}: 1,
		}, counts)
	})

	t.Run("class name is trimmed, number kept verbatim", func(t *testing.T) {
		counts := CountClassOps("[ Map : 07]")
		assert.Equal(t, map[ClassOp]int{{Class: "Map", Number: "07"}: 1}, counts)
	})

	t.Run("distinct numbers are distinct keys", func(t *testing.T) {
		counts := CountClassOps("[Point: 2][Point: 3]")
		assert.Len(t, counts, 2)
	})

	t.Run("non-matching text is ignored", func(t *testing.T) {
		out := "[no number] [also: bad!] plain text [: 5]\n"
		assert.Empty(t, CountClassOps(out))
	})
}
