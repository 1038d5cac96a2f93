// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/regvm/vmbench/bench"
)

// WriteHTMLReport renders the session as a self-contained HTML page with one
// bar chart per benchmark: targets ordered fastest first, best time per
// target.
func WriteHTMLReport(path string, session *bench.Session) error {
	page := components.NewPage()
	page.PageTitle = "vmbench results"

	for _, name := range session.Benchmarks() {
		results := session.Results(name)
		if len(results) == 0 {
			continue
		}
		page.AddCharts(benchmarkChart(name, results))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating html report %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering html report %s: %w", path, err)
	}
	return nil
}

// benchmarkChart builds one benchmark's bar chart, fastest target first.
func benchmarkChart(name string, results []*bench.PairResult) *charts.Bar {
	sorted := make([]*bench.PairResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Stats.Score > sorted[j].Stats.Score
	})

	targets := make([]string, 0, len(sorted))
	times := make([]opts.BarData, 0, len(sorted))
	scores := make([]opts.BarData, 0, len(sorted))
	for _, r := range sorted {
		targets = append(targets, r.Target)
		times = append(times, opts.BarData{Value: r.Stats.Best})
		scores = append(scores, opts.BarData{Value: r.Stats.Score})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "best time (s)"}),
	)
	bar.SetXAxis(targets).
		AddSeries("best time (s)", times).
		AddSeries("score", scores)
	return bar
}
