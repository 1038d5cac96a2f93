// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import "sort"

// -----------------------------------------------------------------------------
// Summary Matrix
// -----------------------------------------------------------------------------

// Matrix is the benchmark × opcode count aggregation. Rows are every opcode
// observed anywhere, columns are every benchmark, both lexicographically
// ordered; identical inputs always yield identical ordering and values.
//
// Thread Safety: immutable after construction.
type Matrix struct {
	opcodes    []string
	benchmarks []string
	cells      map[[2]string]int64 // [opcode, benchmark] → count
	totals     map[string]int64    // benchmark → sum of observed counts
}

// BuildMatrix aggregates per-benchmark opcode count tables.
//
// Inputs:
//   - perBenchmark: Benchmark id → opcode name → count. Non-positive counts
//     are ignored.
//
// Outputs:
//   - *Matrix: The aggregation. Never nil.
func BuildMatrix(perBenchmark map[string]map[string]int64) *Matrix {
	m := &Matrix{
		cells:  make(map[[2]string]int64),
		totals: make(map[string]int64, len(perBenchmark)),
	}

	opcodeSet := make(map[string]struct{})
	for benchmark, counts := range perBenchmark {
		m.benchmarks = append(m.benchmarks, benchmark)
		for op, count := range counts {
			if count <= 0 {
				continue
			}
			opcodeSet[op] = struct{}{}
			m.cells[[2]string{op, benchmark}] = count
			m.totals[benchmark] += count
		}
	}

	for op := range opcodeSet {
		m.opcodes = append(m.opcodes, op)
	}
	sort.Strings(m.opcodes)
	sort.Strings(m.benchmarks)
	return m
}

// Opcodes returns the row labels in order.
func (m *Matrix) Opcodes() []string {
	out := make([]string, len(m.opcodes))
	copy(out, m.opcodes)
	return out
}

// Benchmarks returns the column labels in order.
func (m *Matrix) Benchmarks() []string {
	out := make([]string, len(m.benchmarks))
	copy(out, m.benchmarks)
	return out
}

// Count returns one cell; unobserved pairs are 0.
func (m *Matrix) Count(op, benchmark string) int64 {
	return m.cells[[2]string{op, benchmark}]
}

// Total returns the totals-row entry for one benchmark.
func (m *Matrix) Total(benchmark string) int64 {
	return m.totals[benchmark]
}
