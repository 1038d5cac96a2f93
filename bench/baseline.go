// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Baseline Store
// -----------------------------------------------------------------------------

// missingSentinel marks a benchmark with no recorded baseline. Any value
// with this prefix loads as score 0, meaning "no baseline" rather than a
// literal zero score.
const missingSentinel = "None"

// BaselineRecord is one benchmark's recorded reference score.
type BaselineRecord struct {
	// Name is the benchmark identifier.
	Name string

	// Score is the recorded reference-target score.
	Score float64

	// Missing marks a benchmark that produced no result during
	// regeneration; persisted as the "None" sentinel.
	Missing bool
}

// BaselineStore persists the benchmark → recorded score mapping as plain
// text, one "name,value" record per line. The format is an external
// interface; it round-trips score values exactly.
//
// Thread Safety: safe for concurrent use; Load and Save are independent
// whole-file operations.
type BaselineStore struct {
	path string
}

// NewBaselineStore creates a store backed by the given file.
func NewBaselineStore(path string) *BaselineStore {
	return &BaselineStore{path: path}
}

// Path returns the backing file path.
func (s *BaselineStore) Path() string {
	return s.path
}

// Load reads the full mapping.
//
// Description:
//
//	A nonexistent file is an empty mapping, not an error: a fresh checkout
//	simply has no baseline yet. A value with the "None" prefix yields 0.
//	Malformed lines are skipped.
//
// Outputs:
//   - map[string]float64: Benchmark name → recorded score.
//   - error: Read failure other than absence.
func (s *BaselineStore) Load() (map[string]float64, error) {
	records := make(map[string]float64)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return nil, fmt.Errorf("reading baseline %s: %w", s.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		if strings.HasPrefix(value, missingSentinel) {
			records[name] = 0
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		records[name] = score
	}
	return records, nil
}

// Save overwrites the store wholesale with the given records, in order.
// There is no partial update.
func (s *BaselineStore) Save(records []BaselineRecord) error {
	var sb strings.Builder
	for _, r := range records {
		if r.Missing {
			sb.WriteString(r.Name + "," + missingSentinel + "\n")
			continue
		}
		sb.WriteString(r.Name + "," + strconv.FormatFloat(r.Score, 'g', -1, 64) + "\n")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating baseline dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing baseline %s: %w", s.path, err)
	}
	return nil
}
