// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/regvm/vmbench/opcode"
)

const classTableWidth = 60

// FormatClassOps renders a class-operation tally as a fixed-width table,
// sorted by descending count, then class name, then numeric marker value.
func FormatClassOps(counts map[opcode.ClassOp]int) string {
	if len(counts) == 0 {
		return "No class operation patterns found in output.\n"
	}

	type entry struct {
		op    opcode.ClassOp
		count int
	}
	entries := make([]entry, 0, len(counts))
	total := 0
	for op, count := range counts {
		entries = append(entries, entry{op, count})
		total += count
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		if entries[i].op.Class != entries[j].op.Class {
			return entries[i].op.Class < entries[j].op.Class
		}
		ni, _ := strconv.Atoi(entries[i].op.Number)
		nj, _ := strconv.Atoi(entries[j].op.Number)
		return ni < nj
	})

	rule := strings.Repeat("=", classTableWidth)
	dash := strings.Repeat("-", classTableWidth)

	var b strings.Builder
	b.WriteString(rule + "\nCLASS OPERATION COUNTS\n" + rule + "\n")
	fmt.Fprintf(&b, "%-30s %-10s %-10s\n", "Class Name", "Number", "Count")
	b.WriteString(dash + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-30s %-10s %-10d\n", e.op.Class, e.op.Number, e.count)
	}
	b.WriteString(dash + "\n")
	fmt.Fprintf(&b, "Total unique patterns: %d\n", len(entries))
	fmt.Fprintf(&b, "Total occurrences: %d\n", total)
	return b.String()
}
