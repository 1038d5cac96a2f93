// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package opcode interprets the instrumentation output of a tracing VM build.
//
// An instrumented run prints one or more count blocks delimited by literal
// marker lines; each block maps executed opcode names to counts plus a
// dispatch total. ParseBlocks extracts the blocks, SplitCapture assigns the
// reference/benchmark roles, Normalizer folds token spelling variants onto
// the canonical names declared by the Registry, and BuildMatrix aggregates
// per-benchmark counts into the cross-benchmark frequency matrix.
//
// All lookups are precomputed at load time; nothing in this package is
// recompiled or mutated during a run.
package opcode
