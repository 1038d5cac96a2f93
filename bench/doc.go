// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bench executes the benchmark battery and classifies the results.
//
// # Overview
//
// A trial is one timed execution of a benchmark script under one comparison
// target. The harness runs a fixed number of trials per (benchmark, target)
// pair, validates each trial's output against the benchmark's expected block,
// reduces the elapsed times to best/stddev/score, and classifies the score
// against either the recorded baseline (reference target) or the reference
// target's same-run score (every other target).
//
// # Pipeline
//
//	Harness ──▶ Runner ──▶ OutputPattern ──▶ Summarize ──▶ Session
//	   │                                          │
//	   └────────── BaselineStore ◀────────────────┘
//
// The best-of-N semantics assume trials inside a pair never contend with each
// other, so a pair's trial loop is strictly sequential and aborts on the
// first failure, discarding partial data. Distinct non-reference pairs may
// run concurrently; the reference pair for a benchmark always completes
// before any dependent comparison reads its score.
//
// # Thread Safety
//
// Session is safe for concurrent writers. Runner, OutputPattern, and
// BaselineStore are safe for concurrent use. Harness.Run may be called once
// per Harness at a time.
package bench
