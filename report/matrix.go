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
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/regvm/vmbench/opcode"
)

// -----------------------------------------------------------------------------
// Count file ingestion
// -----------------------------------------------------------------------------

// Two on-disk count formats are accepted: the block style "Opcode: NAME (N)"
// and the plain style "NAME: N" at line start. Plain-style keys that are
// metadata rather than opcodes are skipped.
var (
	benchmarkNameLine = regexp.MustCompile(`Benchmark: (\w+)`)
	blockCountLine    = regexp.MustCompile(`Opcode: (\w+) \((\d+)\)`)
	plainCountLine    = regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]*): (\d+)`)
)

var metadataKeys = map[string]struct{}{
	"Dispatches": {},
	"Total":      {},
	"Benchmark":  {},
}

// ParseCountsFile reads one opcode count report.
//
// Outputs:
//   - string: Benchmark identifier, from the "Benchmark:" line when present,
//     otherwise derived from the filename.
//   - map[string]int64: Opcode → count.
//   - error: Read failure.
func ParseCountsFile(path string) (string, map[string]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading counts file %s: %w", path, err)
	}
	content := string(data)

	name := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".txt"), "_opcode_counts")
	if m := benchmarkNameLine.FindStringSubmatch(content); m != nil {
		name = m[1]
	}

	counts := make(map[string]int64)
	for _, m := range blockCountLine.FindAllStringSubmatch(content, -1) {
		if n, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			counts[m[1]] = n
		}
	}
	for _, m := range plainCountLine.FindAllStringSubmatch(content, -1) {
		if _, skip := metadataKeys[m[1]]; skip {
			continue
		}
		if n, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			counts[m[1]] = n
		}
	}
	return name, counts, nil
}

// CollectCounts ingests every count report in dir, keyed by benchmark. The
// reference trace file is not a benchmark and is skipped.
func CollectCounts(dir string) (map[string]map[string]int64, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scanning counts dir %s: %w", dir, err)
	}
	sort.Strings(paths)

	all := make(map[string]map[string]int64)
	for _, path := range paths {
		if filepath.Base(path) == "baseline.txt" {
			continue
		}
		name, counts, err := ParseCountsFile(path)
		if err != nil {
			return nil, err
		}
		all[name] = counts
	}
	return all, nil
}

// -----------------------------------------------------------------------------
// TSV output
// -----------------------------------------------------------------------------

// WriteMatrixTSV writes the frequency matrix as tab-separated values: a
// header row of benchmark identifiers, one row per opcode, and a TOTAL row.
// The format pastes cleanly into a spreadsheet.
func WriteMatrixTSV(path string, m *opcode.Matrix) error {
	benchmarks := m.Benchmarks()

	var b strings.Builder
	b.WriteString("Opcode\t")
	b.WriteString(strings.Join(benchmarks, "\t"))
	b.WriteString("\n")

	for _, op := range m.Opcodes() {
		b.WriteString(op)
		for _, benchmark := range benchmarks {
			fmt.Fprintf(&b, "\t%d", m.Count(op, benchmark))
		}
		b.WriteString("\n")
	}

	b.WriteString("TOTAL")
	for _, benchmark := range benchmarks {
		fmt.Fprintf(&b, "\t%d", m.Total(benchmark))
	}
	b.WriteString("\n")

	return writeReport(path, b.String())
}
