// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Count Blocks
// -----------------------------------------------------------------------------

// Literal sentinel lines the instrumented VM prints around a count block.
// Comparison is whitespace-trimmed on both sides.
const (
	StartMarker = " ========== OPCODE COUNTS ========== "
	EndMarker   = " =================================== "

	dispatchPrefix = "Dispatches: "
	opcodePrefix   = "Opcode: "
)

// opcodeLine matches "Opcode: NAME (COUNT)" with an optionally negative count.
var opcodeLine = regexp.MustCompile(`^Opcode:\s+(\w+)\s*\((-?\d+)\)`)

// ErrIncompleteCapture indicates a run produced fewer than two count blocks,
// so the reference trace cannot be told apart from the benchmark trace. The
// benchmark is not analyzable for opcode telemetry; the run continues.
var ErrIncompleteCapture = errors.New("incomplete capture: fewer than two count blocks")

// CountBlock is one delimited block of instrumentation output.
type CountBlock struct {
	// Counts maps opcode name → executed count. Counts ≤ 0 in the source
	// text are dropped, never stored as zero.
	Counts map[string]int64

	// Dispatches is the block's executed-instruction total. Malformed
	// values default to zero without aborting the scan.
	Dispatches int64
}

// ParseBlocks scans instrumentation text for count blocks.
//
// Description:
//
//	Scans line by line for the start marker, then accumulates lines into
//	the current block until the end marker — or end of input, which still
//	closes the block. A malformed dispatch or count line defaults to zero
//	and the scan continues; one bad line never aborts a trace parse.
//
// Inputs:
//   - output: Raw combined output of one instrumented execution.
//
// Outputs:
//   - []CountBlock: Blocks in the order found. May be empty.
//
// Thread Safety: stateless, safe for concurrent use.
func ParseBlocks(output string) []CountBlock {
	var blocks []CountBlock

	start := strings.TrimSpace(StartMarker)
	end := strings.TrimSpace(EndMarker)

	lines := strings.Split(output, "\n")
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != start {
			continue
		}

		block := CountBlock{Counts: make(map[string]int64)}
		for i++; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == end {
				break
			}
			switch {
			case strings.HasPrefix(line, dispatchPrefix):
				n, err := strconv.ParseInt(strings.TrimSpace(line[len(dispatchPrefix):]), 10, 64)
				if err != nil {
					n = 0
				}
				block.Dispatches = n
			case strings.HasPrefix(line, opcodePrefix):
				m := opcodeLine.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				count, err := strconv.ParseInt(m[2], 10, 64)
				if err != nil {
					count = 0
				}
				if count > 0 {
					block.Counts[m[1]] = count
				}
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// -----------------------------------------------------------------------------
// Capture Roles
// -----------------------------------------------------------------------------

// Capture assigns explicit roles to a run's count blocks. The instrumented
// binary does not label its blocks; by convention the first block is the
// fixed reference trace and the last is the benchmark-specific trace. That
// positional convention lives only here — everything downstream consumes the
// tagged roles.
type Capture struct {
	// Reference is the fixed reference trace (first block observed).
	Reference CountBlock

	// Benchmark is the benchmark-specific trace (last block observed).
	Benchmark CountBlock

	// Blocks is the total number of blocks the run produced.
	Blocks int
}

// SplitCapture tags the blocks of one run.
//
// Outputs:
//   - *Capture: Role-tagged blocks.
//   - error: ErrIncompleteCapture when fewer than two blocks were found.
func SplitCapture(blocks []CountBlock) (*Capture, error) {
	if len(blocks) < 2 {
		return nil, ErrIncompleteCapture
	}
	return &Capture{
		Reference: blocks[0],
		Benchmark: blocks[len(blocks)-1],
		Blocks:    len(blocks),
	}, nil
}
