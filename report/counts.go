// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/regvm/vmbench/opcode"
)

// -----------------------------------------------------------------------------
// Opcode count reports
// -----------------------------------------------------------------------------

// WriteReferenceTrace writes the fixed reference trace report. Every canonical
// opcode appears, in declaration order, with 0 for unobserved ones; the
// reference trace is a complete snapshot by definition.
func WriteReferenceTrace(path string, block opcode.CountBlock, reg *opcode.Registry) error {
	var b strings.Builder
	b.WriteString("========== OPCODE COUNTS (BASELINE) ==========\n")
	fmt.Fprintf(&b, "Dispatches: %d\n", block.Dispatches)
	for _, op := range reg.Names() {
		fmt.Fprintf(&b, "Opcode: %s (%d)\n", op, block.Counts[op])
	}
	b.WriteString("=============================================\n")
	return writeReport(path, b.String())
}

// WriteBenchmarkCounts writes one benchmark's trace report: the observed
// opcodes in declaration order, then a NOT APPEARING section listing the
// coverage gap against the canonical registry.
func WriteBenchmarkCounts(path, benchmark string, block opcode.CountBlock, reg *opcode.Registry) error {
	var b strings.Builder
	b.WriteString("========== OPCODE COUNTS (BENCHMARK) ==========\n")
	fmt.Fprintf(&b, "Benchmark: %s\n", benchmark)
	fmt.Fprintf(&b, "Dispatches: %d\n", block.Dispatches)

	var missing []string
	for _, op := range reg.Names() {
		count, seen := block.Counts[op]
		if seen {
			fmt.Fprintf(&b, "Opcode: %s (%d)\n", op, count)
		} else {
			missing = append(missing, op)
		}
	}

	b.WriteString("========== NOT APPEARING ==========\n")
	if len(missing) == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, op := range missing {
			b.WriteString(op)
			b.WriteString("\n")
		}
	}
	b.WriteString("===================================\n")
	return writeReport(path, b.String())
}

// WriteStreamCounts writes a streamed count tally: total, then one row per
// observed opcode sorted by descending count (name breaks ties), then the
// unobserved canonical opcodes as a footer.
func WriteStreamCounts(path string, counts map[string]int64, reg *opcode.Registry) error {
	type entry struct {
		name  string
		count int64
	}

	var total int64
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		if count <= 0 {
			continue
		}
		entries = append(entries, entry{name, count})
		total += count
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Total opcodes observed: %d\n", total)
	b.WriteString("Count\tOpcode\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d\t%s\n", e.count, e.name)
	}

	if missing := reg.Missing(counts); len(missing) > 0 {
		b.WriteString("\n# Opcodes not observed (0 count):\n")
		b.WriteString(strings.Join(missing, ", "))
		b.WriteString("\n")
	}
	return writeReport(path, b.String())
}

func writeReport(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
