// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/regvm/vmbench/config"
)

// -----------------------------------------------------------------------------
// Observer
// -----------------------------------------------------------------------------

// Observer receives progress and outcome events during a run. Implementations
// render them (console, logs); the harness itself never prints.
//
// Thread Safety: implementations must tolerate concurrent calls when the
// harness runs pairs in parallel.
type Observer interface {
	// TrialCompleted fires after each successful trial.
	TrialCompleted(benchmark, target string, trial, total int)

	// PairFinished fires once per pair that completed all trials.
	PairFinished(result *PairResult)

	// PairSkipped fires for pairs that produced no result: missing script,
	// unavailable target, or trial failure.
	PairSkipped(benchmark, target string, reason error)

	// OutputMismatch fires when a trial's output diverged from the expected
	// block. raw is the full captured output, surfaced for diagnosis.
	OutputMismatch(benchmark, target, raw string)
}

type nopObserver struct{}

func (nopObserver) TrialCompleted(string, string, int, int) {}
func (nopObserver) PairFinished(*PairResult)                {}
func (nopObserver) PairSkipped(string, string, error)       {}
func (nopObserver) OutputMismatch(string, string, string)   {}

// NopObserver discards all events.
func NopObserver() Observer { return nopObserver{} }

type multiObserver []Observer

func (m multiObserver) TrialCompleted(b, t string, trial, total int) {
	for _, o := range m {
		o.TrialCompleted(b, t, trial, total)
	}
}
func (m multiObserver) PairFinished(r *PairResult) {
	for _, o := range m {
		o.PairFinished(r)
	}
}
func (m multiObserver) PairSkipped(b, t string, reason error) {
	for _, o := range m {
		o.PairSkipped(b, t, reason)
	}
}
func (m multiObserver) OutputMismatch(b, t, raw string) {
	for _, o := range m {
		o.OutputMismatch(b, t, raw)
	}
}

// CombineObservers fans events out to several observers in order.
func CombineObservers(obs ...Observer) Observer {
	return multiObserver(obs)
}

// -----------------------------------------------------------------------------
// Harness
// -----------------------------------------------------------------------------

// Harness orchestrates the timing pipeline: for each benchmark and each
// eligible target it runs the configured number of trials, validates and
// times each, reduces the results, and classifies them.
type Harness struct {
	cfg      *config.Config
	runner   TrialRunner
	patterns map[string]*OutputPattern
	store    *BaselineStore
	observer Observer
	logger   *slog.Logger
}

// HarnessOption configures the harness.
type HarnessOption func(*Harness)

// WithObserver sets the event observer.
func WithObserver(o Observer) HarnessOption {
	return func(h *Harness) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithTrialRunner substitutes the trial runner.
func WithTrialRunner(r TrialRunner) HarnessOption {
	return func(h *Harness) {
		if r != nil {
			h.runner = r
		}
	}
}

// WithHarnessLogger sets the logger.
func WithHarnessLogger(logger *slog.Logger) HarnessOption {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHarness creates a harness for the given configuration.
//
// Description:
//
//	Compiles every benchmark's output pattern once up front — the matcher
//	set is immutable for the remainder of the run — and opens the baseline
//	store. The configuration must already be validated.
//
// Inputs:
//   - cfg: Validated configuration. Must not be nil.
//   - opts: Optional overrides.
//
// Outputs:
//   - *Harness: The harness. Never nil.
func NewHarness(cfg *config.Config, opts ...HarnessOption) *Harness {
	h := &Harness{
		cfg:      cfg,
		patterns: make(map[string]*OutputPattern, len(cfg.Benchmarks)),
		store:    NewBaselineStore(cfg.BaselineFile),
		observer: NopObserver(),
		logger:   slog.Default(),
	}
	for _, b := range cfg.Benchmarks {
		h.patterns[b.Name] = CompilePattern(b.Expect)
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.runner == nil {
		h.runner = NewRunner(
			WithTrialTimeout(cfg.TrialTimeout),
			WithRunnerLogger(h.logger),
		)
	}
	return h
}

// RunOptions selects what a run covers.
type RunOptions struct {
	// Benchmark restricts the run to one benchmark; empty means all.
	Benchmark string

	// Targets restricts the run to the named targets; empty means all.
	Targets []string
}

// Run executes the selected battery and returns the session.
//
// Description:
//
//	Benchmarks run in configuration order. Within a benchmark the
//	reference pair always runs first and its score is passed explicitly to
//	the dependent comparisons; the remaining pairs then run concurrently up
//	to the configured parallelism, each pair's trial loop staying strictly
//	sequential. A pair's first failure aborts its remaining trials and
//	discards partial data; the run continues with other pairs.
//
// Inputs:
//   - ctx: Cancellation context. Must not be nil.
//   - opts: Benchmark/target selection.
//
// Outputs:
//   - *Session: All finalized pair results. Never nil on nil error.
//   - error: Fatal setup errors only (empty selection); per-pair failures
//     are reported through the observer instead.
func (h *Harness) Run(ctx context.Context, opts RunOptions) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	benchmarks := h.selectBenchmarks(opts.Benchmark)
	if len(benchmarks) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoBenchmarks, opts.Benchmark)
	}

	ctx, span := otel.Tracer("bench").Start(ctx, "bench.Harness.Run",
		trace.WithAttributes(
			attribute.Int("benchmarks", len(benchmarks)),
			attribute.Int("trials", h.cfg.Trials),
		),
	)
	defer span.End()

	baseline, err := h.store.Load()
	if err != nil {
		return nil, err
	}

	session := NewSession()

	for _, b := range benchmarks {
		if ctx.Err() != nil {
			return session, ctx.Err()
		}
		h.runBenchmark(ctx, session, b, baseline, opts.Targets)
	}

	span.SetAttributes(attribute.Int("results", session.Len()))
	h.logger.Info("benchmark run completed",
		slog.Int("benchmarks", len(benchmarks)),
		slog.Int("results", session.Len()),
	)
	return session, nil
}

// runBenchmark runs every eligible pair for one benchmark, reference first.
func (h *Harness) runBenchmark(
	ctx context.Context,
	session *Session,
	b config.Benchmark,
	baseline map[string]float64,
	targetFilter []string,
) {
	targets := h.selectTargets(targetFilter)

	// The reference pair publishes before any dependent comparison reads
	// it. This is a hard ordering dependency, not an optimization.
	var refScore *float64
	for _, t := range targets {
		if !t.IsReference() {
			continue
		}
		if res := h.runPair(ctx, b, t, h.baselineComparison(baseline, b.Name)); res != nil {
			session.Add(res)
			score := res.Stats.Score
			refScore = &score
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Parallelism)
	for _, t := range targets {
		if t.IsReference() {
			continue
		}
		t := t
		g.Go(func() error {
			if res := h.runPair(gctx, b, t, referenceComparison(refScore)); res != nil {
				session.Add(res)
			}
			return nil
		})
	}
	_ = g.Wait() // pair failures are observed, never returned
}

// runPair runs the full trial sequence for one (benchmark, target) pair.
// It returns nil — and reports why through the observer — when the pair
// produced no result.
func (h *Harness) runPair(
	ctx context.Context,
	b config.Benchmark,
	t config.Target,
	compare func(score float64) Comparison,
) *PairResult {
	script := h.cfg.ScriptPath(b, t)
	if _, err := os.Stat(script); err != nil {
		h.observer.PairSkipped(b.Name, t.Name, fmt.Errorf("%w: %s", ErrMissingScript, script))
		return nil
	}

	pattern := h.patterns[b.Name]
	times := make([]float64, 0, h.cfg.Trials)

	for trial := 1; trial <= h.cfg.Trials; trial++ {
		out, err := h.runner.RunTrial(ctx, t.Command, script)
		if err != nil {
			h.logger.Warn("trial failed",
				slog.String("benchmark", b.Name),
				slog.String("target", t.Name),
				slog.Int("trial", trial),
				slog.String("error", err.Error()),
			)
			h.observer.PairSkipped(b.Name, t.Name, err)
			return nil
		}

		elapsed, err := pattern.Match(out)
		if err != nil {
			h.observer.OutputMismatch(b.Name, t.Name, out)
			h.observer.PairSkipped(b.Name, t.Name, ErrOutputMismatch)
			return nil
		}

		times = append(times, elapsed)
		h.observer.TrialCompleted(b.Name, t.Name, trial, h.cfg.Trials)
	}

	summary, err := Summarize(times)
	if err != nil {
		// Trials > 0 is enforced by config validation.
		h.observer.PairSkipped(b.Name, t.Name, err)
		return nil
	}

	result := &PairResult{
		Benchmark:  b.Name,
		Target:     t.Name,
		Desc:       b.Name + " - " + t.Name,
		Times:      times,
		Stats:      summary,
		Comparison: compare(summary.Score),
	}
	h.observer.PairFinished(result)
	return result
}

// -----------------------------------------------------------------------------
// Baseline Regeneration
// -----------------------------------------------------------------------------

// RegenerateBaseline re-derives every baseline by running the full battery
// once against the reference target at the standard trial count, then writes
// the store wholesale.
//
// Benchmarks that produce no result are recorded with the missing sentinel so
// the battery and the store stay aligned.
func (h *Harness) RegenerateBaseline(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context must not be nil")
	}

	reference, ok := h.cfg.Reference()
	if !ok {
		return config.ErrNoReference
	}

	ctx, span := otel.Tracer("bench").Start(ctx, "bench.Harness.RegenerateBaseline")
	defer span.End()

	noComparison := func(float64) Comparison { return Comparison{Kind: CompareNone} }

	records := make([]BaselineRecord, 0, len(h.cfg.Benchmarks))
	for _, b := range h.cfg.Benchmarks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res := h.runPair(ctx, b, reference, noComparison)
		if res == nil {
			records = append(records, BaselineRecord{Name: b.Name, Missing: true})
			continue
		}
		records = append(records, BaselineRecord{Name: b.Name, Score: res.Stats.Score})
	}

	if err := h.store.Save(records); err != nil {
		return err
	}
	h.logger.Info("baseline regenerated",
		slog.String("path", h.store.Path()),
		slog.Int("records", len(records)),
	)
	return nil
}

// -----------------------------------------------------------------------------
// Selection & comparison builders
// -----------------------------------------------------------------------------

func (h *Harness) selectBenchmarks(name string) []config.Benchmark {
	if name == "" || name == "all" {
		return h.cfg.Benchmarks
	}
	if b, ok := h.cfg.FindBenchmark(name); ok {
		return []config.Benchmark{b}
	}
	return nil
}

func (h *Harness) selectTargets(filter []string) []config.Target {
	if len(filter) == 0 {
		return h.cfg.Targets
	}
	keep := make(map[string]struct{}, len(filter))
	for _, n := range filter {
		keep[n] = struct{}{}
	}
	var out []config.Target
	for _, t := range h.cfg.Targets {
		if _, ok := keep[t.Name]; ok {
			out = append(out, t)
		}
	}
	return out
}

// baselineComparison classifies the reference target's score against its
// recorded baseline. A zero or absent baseline means "no baseline recorded".
func (h *Harness) baselineComparison(baseline map[string]float64, benchmark string) func(float64) Comparison {
	return func(score float64) Comparison {
		recorded, ok := baseline[benchmark]
		if !ok || recorded == 0 {
			return Comparison{Kind: CompareNone}
		}
		ratio := 100 * score / recorded
		return Comparison{Kind: CompareBaseline, Ratio: ratio, Class: Classify(ratio)}
	}
}

// referenceComparison classifies a dependent target's score against the
// reference target's same-run score. A nil score means the reference pair
// produced no result this run; the comparison is reported unavailable
// rather than crashing.
func referenceComparison(refScore *float64) func(float64) Comparison {
	return func(score float64) Comparison {
		if refScore == nil || *refScore == 0 || score == 0 {
			return Comparison{Kind: CompareUnavailable}
		}
		ratio := 100 * *refScore / score
		return Comparison{Kind: CompareReference, Ratio: ratio, Class: Classify(ratio)}
	}
}
