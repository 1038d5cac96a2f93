// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import (
	"bufio"
	"fmt"
	"io"
)

// streamBufferSize bounds one line of instrumentation output. Trace lines are
// short; 1 MiB leaves plenty of headroom.
const streamBufferSize = 1 << 20

// CountStream tallies opcode tokens from r line by line. Memory use is
// bounded by one line regardless of trace length.
//
// Inputs:
//   - r: Instrumentation output stream. Must not be nil.
//   - n: The token normalizer. Must not be nil.
//
// Outputs:
//   - map[string]int64: Canonical opcode name → count. Never nil.
//   - error: Stream read failure.
func CountStream(r io.Reader, n *Normalizer) (map[string]int64, error) {
	counts := make(map[string]int64)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), streamBufferSize)
	for scanner.Scan() {
		n.CountLine(scanner.Text(), counts)
	}
	if err := scanner.Err(); err != nil {
		return counts, fmt.Errorf("reading trace stream: %w", err)
	}
	return counts, nil
}
