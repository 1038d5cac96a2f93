// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package opcode

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// -----------------------------------------------------------------------------
// Canonical Registry
// -----------------------------------------------------------------------------

// ErrNoOpcodes indicates the schema source declared no opcodes. This is a
// missing or malformed schema, not a benign empty result; loading fails.
var ErrNoOpcodes = errors.New("no opcodes found in schema")

// declPattern matches one REGOPCODE(NAME, ...) declaration.
var declPattern = regexp.MustCompile(`REGOPCODE\(\s*(\w+)\s*,`)

// Registry is the authoritative, ordered set of opcode identifiers — the
// single source of truth for which opcodes exist. Declaration order is
// preserved for deterministic report ordering.
//
// Thread Safety: immutable after construction.
type Registry struct {
	names []string
	index map[string]int
}

// LoadRegistry parses the opcode schema file.
//
// Inputs:
//   - path: Schema source declaring opcodes via REGOPCODE(NAME, ...).
//
// Outputs:
//   - *Registry: The ordered registry.
//   - error: Read failure, or ErrNoOpcodes when nothing was declared.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading opcode schema %s: %w", path, err)
	}
	reg, err := ParseRegistry(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return reg, nil
}

// ParseRegistry parses schema source text.
func ParseRegistry(src string) (*Registry, error) {
	matches := declPattern.FindAllStringSubmatch(src, -1)
	if len(matches) == 0 {
		return nil, ErrNoOpcodes
	}

	reg := &Registry{
		names: make([]string, 0, len(matches)),
		index: make(map[string]int, len(matches)),
	}
	for _, m := range matches {
		name := m[1]
		if _, dup := reg.index[name]; dup {
			continue
		}
		reg.index[name] = len(reg.names)
		reg.names = append(reg.names, name)
	}
	return reg, nil
}

// Names returns the identifiers in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of canonical opcodes.
func (r *Registry) Len() int {
	return len(r.names)
}

// Contains reports whether name is a canonical opcode.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Missing returns the coverage gap: canonical opcodes with no positive count
// in the given mapping, sorted lexicographically.
func (r *Registry) Missing(counts map[string]int64) []string {
	var gap []string
	for _, name := range r.names {
		if counts[name] == 0 {
			gap = append(gap, name)
		}
	}
	sort.Strings(gap)
	return gap
}
