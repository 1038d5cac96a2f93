// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OutputPattern validates a trial's raw output and extracts the elapsed time.
//
// The pattern anchors the benchmark's literal multi-line result block at the
// very start of the output, immediately followed by an "elapsed: <float>"
// line. Anchoring at the start means any extraneous leading output — a crash
// banner, a warning, a stray print — is a mismatch, never silently skipped.
// Trailing output after the elapsed line is permitted.
//
// Patterns are compiled once at load time and are immutable afterwards.
type OutputPattern struct {
	re *regexp.Regexp
}

// CompilePattern builds the matcher for a benchmark's expected output lines.
func CompilePattern(expect []string) *OutputPattern {
	block := regexp.QuoteMeta(strings.Join(expect, "\n"))
	return &OutputPattern{
		re: regexp.MustCompile(`\A` + block + `\nelapsed: (\d+\.\d+)`),
	}
}

// Match validates raw output against the pattern.
//
// Outputs:
//   - float64: The parsed elapsed seconds on success.
//   - error: ErrOutputMismatch if the output diverges from the expected
//     block at all, including whitespace or line-count differences. The
//     caller must surface the raw output for diagnosis.
func (p *OutputPattern) Match(output string) (float64, error) {
	m := p.re.FindStringSubmatch(output)
	if m == nil {
		return 0, ErrOutputMismatch
	}
	elapsed, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		// Unreachable with the digit-group pattern, barring overflow.
		return 0, fmt.Errorf("%w: bad elapsed value %q", ErrOutputMismatch, m[1])
	}
	return elapsed, nil
}
