// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"strings"

	"github.com/regvm/vmbench/bench"
)

// graphWidth is the character width of one distribution row.
const graphWidth = 68

// increment deepens a graph cell each time another trial lands on it.
var increment = map[byte]byte{
	'-': 'o',
	'o': 'O',
	'O': '0',
	'0': '0',
}

// ProgressBar renders one progress bar frame without a trailing newline.
func ProgressBar(iteration, total, width int, prefix string) string {
	if total <= 0 || width <= 0 {
		return prefix
	}
	percent := 100 * float64(iteration) / float64(total)
	filled := width * iteration / total
	bar := strings.Repeat("█", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("%s |%s| %.1f%% Complete", prefix, bar, percent)
}

// RenderDistribution draws the per-trial score distributions of one
// benchmark's results as an ASCII scatter.
//
// Description:
//
//	All rows share one scale: the highest per-trial score observed across
//	the results. Each trial's score lands in one of 68 cells; repeated hits
//	on a cell deepen its glyph ('-' → 'o' → 'O' → '0'), so density reads as
//	weight.
//
// Inputs:
//   - results: Finalized pairs of one benchmark. Empty input renders "".
//
// Outputs:
//   - string: The rendered graph, including the scale header line.
func RenderDistribution(results []*bench.PairResult) string {
	if len(results) == 0 {
		return ""
	}

	highest := 0.0
	for _, r := range results {
		for _, t := range r.Times {
			if s := bench.Score(t); s > highest {
				highest = s
			}
		}
	}
	if highest == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-30s0 %66.0f\n", "", highest)
	for _, r := range results {
		line := []byte(strings.Repeat("-", graphWidth))
		for _, t := range r.Times {
			index := int(bench.Score(t) / highest * (graphWidth - 1))
			line[index] = increment[line[index]]
		}
		fmt.Fprintf(&b, "%-30s%s\n", r.Desc, line)
	}
	return b.String()
}
