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
// Token Normalizer
// -----------------------------------------------------------------------------

// fallbackToken extracts candidate tokens for the case-insensitive pass.
var fallbackToken = regexp.MustCompile(`[A-Za-z_]+`)

// Normalizer folds the textual spellings of an opcode name onto its
// canonical identifier. Three spellings are recognized per opcode: the bare
// NAME and the OP_NAME / op_NAME prefixed variants. Matching is whole-token
// (word-boundary anchored) so a short name never matches inside an unrelated
// longer token.
//
// The matcher and lookup tables are built once from the registry and held
// immutable for the remainder of the run.
//
// Thread Safety: safe for concurrent use.
type Normalizer struct {
	matcher   *regexp.Regexp
	canonical map[string]string   // spelling → canonical name
	known     map[string]struct{} // uppercased canonical names
}

// NewNormalizer builds the matcher for the registry's opcode set.
func NewNormalizer(reg *Registry) *Normalizer {
	names := reg.Names()

	spellings := make([]string, 0, 3*len(names))
	canonical := make(map[string]string, 3*len(names))
	known := make(map[string]struct{}, len(names))

	for _, name := range names {
		for _, spelling := range []string{name, "OP_" + name, "op_" + name} {
			spellings = append(spellings, regexp.QuoteMeta(spelling))
			canonical[spelling] = name
		}
		known[strings.ToUpper(name)] = struct{}{}
	}

	return &Normalizer{
		matcher:   regexp.MustCompile(`\b(` + strings.Join(spellings, "|") + `)\b`),
		canonical: canonical,
		known:     known,
	}
}

// Canonical resolves one spelling to its canonical name.
func (n *Normalizer) Canonical(token string) (string, bool) {
	name, ok := n.canonical[token]
	return name, ok
}

// CountLine tallies every opcode token on one line into counts.
//
// Description:
//
//	Runs the exact whole-token matcher first. When that matches nothing on
//	the line, falls back to case-insensitive tokenization restricted to
//	tokens whose uppercased form equals a known canonical name; matched
//	tokens tally under that uppercased name.
//
// Inputs:
//   - line: One line of instrumentation output.
//   - counts: Accumulator, mutated in place. Must not be nil.
//
// Outputs:
//   - int: Number of tokens tallied from this line.
func (n *Normalizer) CountLine(line string, counts map[string]int64) int {
	matched := 0
	for _, token := range n.matcher.FindAllString(line, -1) {
		counts[n.canonical[token]]++
		matched++
	}
	if matched > 0 {
		return matched
	}

	for _, token := range fallbackToken.FindAllString(line, -1) {
		upper := strings.ToUpper(token)
		if _, ok := n.known[upper]; ok {
			counts[upper]++
			matched++
		}
	}
	return matched
}
