// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrTargetUnavailable indicates the target's interpreter or binary
	// could not be located or started. The pair is skipped; the run
	// continues.
	ErrTargetUnavailable = errors.New("target unavailable")

	// ErrOutputMismatch indicates a trial's output did not match the
	// benchmark's expected block. The pair's remaining trials are aborted
	// and the raw output is surfaced for diagnosis.
	ErrOutputMismatch = errors.New("incorrect output")

	// ErrMissingScript indicates a target has no implementation file for a
	// benchmark. The pair is skipped silently; other pairs are unaffected.
	ErrMissingScript = errors.New("no implementation for target")

	// ErrTrialTimeout indicates a single trial exceeded the configured
	// bound. Treated as a trial failure, not a fatal error.
	ErrTrialTimeout = errors.New("trial timed out")

	// ErrNoSamples indicates statistics were requested over zero trials.
	ErrNoSamples = errors.New("no samples collected")

	// ErrNoBenchmarks indicates the selection matched nothing. Fatal setup
	// error.
	ErrNoBenchmarks = errors.New("no benchmarks selected")
)

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// Classification buckets a comparison ratio.
type Classification int

const (
	// ClassNeutral indicates the ratio is within [95, 105].
	ClassNeutral Classification = iota

	// ClassImproved indicates the ratio is strictly above 105.
	ClassImproved

	// ClassRegressed indicates the ratio is strictly below 95.
	ClassRegressed
)

// Classification thresholds, in percent. Bounds are strict: exactly 105 or
// exactly 95 is neutral.
const (
	ImprovedThreshold  = 105.0
	RegressedThreshold = 95.0
)

// String returns the string representation.
func (c Classification) String() string {
	switch c {
	case ClassNeutral:
		return "neutral"
	case ClassImproved:
		return "improved"
	case ClassRegressed:
		return "regressed"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Classify buckets a percentage ratio against the strict 105/95 thresholds.
func Classify(ratio float64) Classification {
	switch {
	case ratio > ImprovedThreshold:
		return ClassImproved
	case ratio < RegressedThreshold:
		return ClassRegressed
	default:
		return ClassNeutral
	}
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// ComparisonKind identifies what a pair's score was compared against.
type ComparisonKind int

const (
	// CompareNone indicates no baseline was recorded for the benchmark.
	CompareNone ComparisonKind = iota

	// CompareBaseline indicates the reference target was compared against
	// its recorded baseline score.
	CompareBaseline

	// CompareReference indicates a non-reference target was compared
	// against the reference target's score from the same run.
	CompareReference

	// CompareUnavailable indicates the reference target produced no result
	// this run, so the comparison could not be made.
	CompareUnavailable
)

// String returns the string representation.
func (k ComparisonKind) String() string {
	switch k {
	case CompareNone:
		return "no baseline"
	case CompareBaseline:
		return "baseline"
	case CompareReference:
		return "reference"
	case CompareUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("comparison_kind(%d)", int(k))
	}
}

// Comparison is the classified outcome of one pair's score comparison.
type Comparison struct {
	// Kind identifies the comparison basis.
	Kind ComparisonKind

	// Ratio is 100 * score / other. Meaningful only for CompareBaseline
	// and CompareReference.
	Ratio float64

	// Class is the bucketed ratio.
	Class Classification
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// PairResult is the finalized outcome of one (benchmark, target) pair.
// Nothing is mutated after the harness publishes it.
type PairResult struct {
	// Benchmark is the benchmark identifier.
	Benchmark string

	// Target is the target identifier.
	Target string

	// Desc is the "benchmark - target" display label.
	Desc string

	// Times holds every trial's elapsed seconds, in execution order.
	Times []float64

	// Stats is the reduction of Times.
	Stats Summary

	// Comparison classifies Stats.Score.
	Comparison Comparison
}
