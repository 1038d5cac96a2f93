// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/regvm/vmbench/bench"
)

// Semantic colors for comparison outcomes.
var (
	ColorImproved  = lipgloss.Color("#2ECC71") // green - faster than the basis
	ColorRegressed = lipgloss.Color("#E74C3C") // red - slower than the basis
	ColorWarning   = lipgloss.Color("#F4D03F") // gold - skips and mismatches
	ColorMuted     = lipgloss.Color("#2C4A54") // slate - informational
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Improved  lipgloss.Style
	Regressed lipgloss.Style
	Warning   lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
}{
	Improved:  lipgloss.NewStyle().Foreground(ColorImproved),
	Regressed: lipgloss.NewStyle().Foreground(ColorRegressed),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Bold:      lipgloss.NewStyle().Bold(true),
}

// FormatComparison renders one comparison, color keyed to the classification.
func FormatComparison(c bench.Comparison) string {
	var text string
	switch c.Kind {
	case bench.CompareNone:
		return Styles.Muted.Render("no baseline")
	case bench.CompareUnavailable:
		return Styles.Warning.Render("no reference score")
	case bench.CompareBaseline:
		text = fmt.Sprintf("%6.2f%% relative to baseline", c.Ratio)
	case bench.CompareReference:
		text = fmt.Sprintf("%6.2f%%", c.Ratio)
	default:
		return ""
	}
	switch c.Class {
	case bench.ClassImproved:
		return Styles.Improved.Render(text)
	case bench.ClassRegressed:
		return Styles.Regressed.Render(text)
	default:
		return text
	}
}

// FormatResult renders one finalized pair as a single result line.
func FormatResult(r *bench.PairResult) string {
	return fmt.Sprintf("%-30s %4.2fs %4.4f %s",
		r.Desc, r.Stats.Best, r.Stats.StdDev, FormatComparison(r.Comparison))
}

// ConsoleObserver renders run events to a terminal: a progress bar per pair
// while trials run, a result line when the pair finishes, and styled notices
// for skips and output mismatches.
//
// Thread Safety: safe for concurrent use; events from parallel pairs are
// serialized through an internal mutex.
type ConsoleObserver struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleObserver creates a console observer writing to w.
func NewConsoleObserver(w io.Writer) *ConsoleObserver {
	return &ConsoleObserver{w: w}
}

// TrialCompleted redraws the pair's progress bar in place.
func (c *ConsoleObserver) TrialCompleted(benchmark, target string, trial, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%-30s", benchmark+" - "+target)
	fmt.Fprintf(c.w, "\r%s", ProgressBar(trial, total, 50, prefix))
	if trial == total {
		fmt.Fprintln(c.w)
	}
}

// PairFinished prints the pair's result line.
func (c *ConsoleObserver) PairFinished(r *bench.PairResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, FormatResult(r))
}

// PairSkipped prints why a pair produced no result. Missing implementations
// are routine and rendered muted; everything else is a warning.
func (c *ConsoleObserver) PairSkipped(benchmark, target string, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	desc := fmt.Sprintf("%-30s", benchmark+" - "+target)
	switch {
	case errors.Is(reason, bench.ErrMissingScript):
		fmt.Fprintf(c.w, "%s %s\n", desc, Styles.Muted.Render(reason.Error()))
	case errors.Is(reason, bench.ErrTargetUnavailable):
		fmt.Fprintf(c.w, "%s %s\n", desc, Styles.Warning.Render("interpreter was not found"))
	default:
		fmt.Fprintf(c.w, "%s %s\n", desc, Styles.Warning.Render(reason.Error()))
	}
}

// OutputMismatch dumps the diverging output for diagnosis.
func (c *ConsoleObserver) OutputMismatch(benchmark, target, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n%s\n",
		benchmark+" - "+target, Styles.Regressed.Render("incorrect output:"), raw)
}
