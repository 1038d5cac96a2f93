// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/regvm/vmbench/bench"
)

// TimesLog appends every finished pair's raw trial times to a log file, one
// line per pair. The log is append-only; runs accumulate.
//
// Line format: "<desc>: t1, t2, ..., "
//
// Thread Safety: safe for concurrent use.
type TimesLog struct {
	mu   sync.Mutex
	path string
}

// NewTimesLog creates a times log writing to path.
func NewTimesLog(path string) *TimesLog {
	return &TimesLog{path: path}
}

// Append writes one pair's times. The parent directory is created on demand.
func (l *TimesLog) Append(desc string, times []float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating times log dir: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening times log %s: %w", l.path, err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString(desc)
	b.WriteString(": ")
	for _, t := range times {
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
		b.WriteString(", ")
	}
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing times log %s: %w", l.path, err)
	}
	return nil
}

// Observer adapts the log to the harness event stream. A write failure is
// logged and the run continues; timing data loss never aborts a run.
func (l *TimesLog) Observer(logger *slog.Logger) bench.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &timesObserver{log: l, logger: logger}
}

type timesObserver struct {
	log    *TimesLog
	logger *slog.Logger
}

func (o *timesObserver) TrialCompleted(string, string, int, int) {}
func (o *timesObserver) PairSkipped(string, string, error)       {}
func (o *timesObserver) OutputMismatch(string, string, string)   {}

func (o *timesObserver) PairFinished(r *bench.PairResult) {
	if err := o.log.Append(r.Desc, r.Times); err != nil {
		o.logger.Warn("times log write failed",
			slog.String("pair", r.Desc),
			slog.String("error", err.Error()),
		)
	}
}
