// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import "path/filepath"

// repeat builds an expected-output block of n identical lines, for workloads
// that print the same checksum once per outer iteration.
func repeat(line string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = line
	}
	return out
}

// Default returns the stock battery and target set.
//
// The expected outputs are the deterministic results each workload prints
// regardless of runtime; a divergence means the workload computed the wrong
// answer, not that it was slow.
func Default() *Config {
	return &Config{
		Trials:       100,
		BenchmarkDir: filepath.Join("test", "benchmark"),
		BaselineFile: filepath.Join("test", "benchmark", "baseline.txt"),
		TimesLog:     filepath.Join("data", "times.txt"),
		Parallelism:  1,
		Targets: []Target{
			{Name: "regvm", Command: []string{filepath.Join("bin", "regvm")}, Extension: ".rvm", Role: RoleReference},
			{Name: "regvm-stack", Command: []string{filepath.Join("bin", "regvm-stack")}, Extension: ".rvm"},
			{Name: "lua", Command: []string{"lua"}, Extension: ".lua"},
			{Name: "luajit", Command: []string{"luajit", "-joff"}, Extension: ".lua"},
			{Name: "python", Command: []string{"python3"}, Extension: ".py"},
		},
		Benchmarks: []Benchmark{
			{Name: "api_call", Expect: []string{"true"}},
			{Name: "api_foreign_method", Expect: []string{"500000000"}},
			{Name: "binary_trees", Expect: []string{
				"stretch tree of depth 15 check: -1",
				"32768 trees of depth 4 check: -32768",
				"8192 trees of depth 6 check: -8192",
				"2048 trees of depth 8 check: -2048",
				"512 trees of depth 10 check: -512",
				"128 trees of depth 12 check: -128",
				"32 trees of depth 14 check: -32",
				"long lived tree of depth 14 check: -1",
			}},
			{Name: "binary_trees_gc", Expect: []string{
				"stretch tree of depth 13 check: -1",
				"8192 trees of depth 4 check: -8192",
				"2048 trees of depth 6 check: -2048",
				"512 trees of depth 8 check: -512",
				"128 trees of depth 10 check: -128",
				"32 trees of depth 12 check: -32",
				"long lived tree of depth 12 check: -1",
			}},
			{Name: "delta_blue", Expect: []string{"105490500"}},
			{Name: "fib", Expect: repeat("1346269", 10)},
			{Name: "fib_tail_call", Expect: []string{"1548008755920"}},
			{Name: "fibers", Expect: []string{"4999950000"}},
			{Name: "for", Expect: repeat("1999999000000", 10)},
			{Name: "map_numeric", Expect: []string{"2000001000000"}},
			{Name: "map_string", Expect: repeat("12799920000", 10)},
			{Name: "method_call", Expect: []string{"true", "false"}},
			{Name: "string_equals", Expect: []string{"24000000"}},
		},
		Opcodes: Opcodes{
			Binary: filepath.Join("bin", "regvm-trace"),
			Schema: filepath.Join("src", "vm", "register_opcodes.h"),
			OutDir: filepath.Join("data", "opcode_counts"),
		},
	}
}
