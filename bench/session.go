// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import "sync"

// Session accumulates the results of one harness run. It is the explicit
// run context returned to the caller; no results live in package state, so
// concurrent or repeated runs cannot observe each other.
//
// During a run the session is append-only per (benchmark, target) key; after
// Run returns it is read-only.
//
// Thread Safety: safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	order   []string                 // benchmarks in completion order
	results map[string][]*PairResult // benchmark → results in completion order
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{results: make(map[string][]*PairResult)}
}

// Add records a finalized pair result.
func (s *Session) Add(r *PairResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.results[r.Benchmark]; !seen {
		s.order = append(s.order, r.Benchmark)
	}
	s.results[r.Benchmark] = append(s.results[r.Benchmark], r)
}

// Get returns the result for one (benchmark, target) pair.
func (s *Session) Get(benchmark, target string) (*PairResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results[benchmark] {
		if r.Target == target {
			return r, true
		}
	}
	return nil, false
}

// Benchmarks returns benchmark names in completion order.
func (s *Session) Benchmarks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Results returns one benchmark's pair results in completion order.
func (s *Session) Results(benchmark string) []*PairResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*PairResult, len(s.results[benchmark]))
	copy(out, s.results[benchmark])
	return out
}

// Len returns the total number of recorded pair results.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rs := range s.results {
		n += len(rs)
	}
	return n
}
