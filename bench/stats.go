// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import "math"

// ScoreScale is the constant K in score = K / best. It is a display scale
// only; all comparisons are relative.
const ScoreScale = 1000.0

// Summary is the statistical reduction of one pair's trial times.
type Summary struct {
	// Best is the minimum elapsed time, taken as the runtime's ideal
	// performance; OS-induced variance only ever slows a trial down.
	Best float64

	// Mean is the arithmetic mean.
	Mean float64

	// StdDev is the population standard deviation (divisor N, not N-1).
	StdDev float64

	// Score is ScoreScale / Best; higher is faster.
	Score float64
}

// Score converts a best time into the inverse-time score.
func Score(best float64) float64 {
	return ScoreScale / best
}

// Summarize reduces an ordered sequence of elapsed times.
//
// Description:
//
//	Computes best (minimum), mean, population standard deviation, and
//	score. A single sample yields a standard deviation of zero.
//
// Inputs:
//   - times: Elapsed seconds, all >= 0. Must not be empty.
//
// Outputs:
//   - Summary: The reduction.
//   - error: ErrNoSamples if times is empty. The harness never calls this
//     on zero trials; the guard is for direct callers.
//
// Thread Safety: stateless, safe for concurrent use.
func Summarize(times []float64) (Summary, error) {
	if len(times) == 0 {
		return Summary{}, ErrNoSamples
	}

	best := times[0]
	sum := 0.0
	for _, t := range times {
		if t < best {
			best = t
		}
		sum += t
	}
	mean := sum / float64(len(times))

	sumSq := 0.0
	for _, t := range times {
		diff := t - mean
		sumSq += diff * diff
	}

	return Summary{
		Best:   best,
		Mean:   mean,
		StdDev: math.Sqrt(sumSq / float64(len(times))),
		Score:  Score(best),
	}, nil
}
