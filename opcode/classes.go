// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import (
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// Class Operation Markers
// -----------------------------------------------------------------------------

// ClassOp identifies one "[ClassName: number]" marker an instrumented run
// prints when it performs a class operation. The number is kept as printed;
// distinct values are distinct keys.
type ClassOp struct {
	Class  string
	Number string
}

// classOpPattern matches "[ClassName: number]" anywhere on a line.
var classOpPattern = regexp.MustCompile(`\[([^:\]]+):\s*(\d+)\]`)

// CountClassOps tallies class-operation markers in instrumentation output.
// Text outside the bracketed markers is ignored.
func CountClassOps(output string) map[ClassOp]int {
	counts := make(map[ClassOp]int)
	for _, m := range classOpPattern.FindAllStringSubmatch(output, -1) {
		counts[ClassOp{Class: strings.TrimSpace(m[1]), Number: m[2]}]++
	}
	return counts
}
