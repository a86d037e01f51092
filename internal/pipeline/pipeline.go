// Package pipeline orchestrates a full analysis run: load, profile, compute,
// render, report.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wrenfolk/edascope/internal/config"
	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/logger"
	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/profile"
	"github.com/wrenfolk/edascope/internal/report"
	"github.com/wrenfolk/edascope/internal/stats"
	"github.com/wrenfolk/edascope/internal/utils"
	"github.com/wrenfolk/edascope/internal/viz"
)

// Names of the files a run writes into the output directory.
const (
	SummaryFile       = "eda_summary.json"
	ReportFile        = "eda_report.html"
	ColumnProfileFile = "column_profile.html"
	PlotsDir          = "plots"
	ReportsDir        = "reports"
)

// Options selects the input and per-run overrides on top of Settings.
type Options struct {
	InputPath string
	OutputDir string
	// Profiling controls the per-column detail page under reports/.
	Profiling bool
	Dataset   dataset.Options
	Outliers  outliers.Config
}

// Run executes the full analysis and writes all artifacts under
// opts.OutputDir. The returned result is what the reports were built from.
func Run(cfg *config.Settings, opts Options) (*report.Result, error) {
	start := time.Now()
	if err := utils.EnsureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	plotsDir := filepath.Join(opts.OutputDir, PlotsDir)
	if err := utils.EnsureDir(plotsDir); err != nil {
		return nil, err
	}

	logger.Info("loading %s", opts.InputPath)
	ds, err := dataset.Load(opts.InputPath, opts.Dataset)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded %d rows, %d columns", ds.NumRows, len(ds.Columns))

	res := &report.Result{
		Source:        filepath.Base(opts.InputPath),
		GeneratedAt:   time.Now(),
		RunID:         uuid.NewString(),
		Profile:       profile.Profile(ds),
		Numeric:       make(map[string]stats.Descriptive),
		Categorical:   make(map[string]stats.FrequencyTable),
		CorrThreshold: cfg.CorrelationThreshold,
		Warnings:      ds.Warnings,
	}

	logger.Info("computing descriptive statistics")
	for i := range ds.Columns {
		col := &ds.Columns[i]
		switch col.Kind {
		case dataset.KindNumeric:
			res.Numeric[col.Name] = stats.Describe(col.Values())
		case dataset.KindCategorical, dataset.KindBoolean:
			res.Categorical[col.Name] = stats.Frequencies(col, cfg.TopNCategories)
		}
	}

	logger.Info("detecting outliers with %v", opts.Outliers.Methods)
	res.Outliers, err = outliers.Detect(ds, opts.Outliers)
	if err != nil {
		return nil, err
	}

	res.Corr = stats.Correlations(ds)

	logger.Info("rendering charts into %s", plotsDir)
	res.PlotFiles, res.Warnings = renderCharts(ds, res, cfg, plotsDir, res.Warnings)

	res.Findings = report.KeyFindings(res)

	if err := report.WriteJSON(res, filepath.Join(opts.OutputDir, SummaryFile)); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	if err := report.WriteHTML(res, filepath.Join(opts.OutputDir, ReportFile)); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if opts.Profiling {
		reportsDir := filepath.Join(opts.OutputDir, ReportsDir)
		if err := utils.EnsureDir(reportsDir); err != nil {
			return nil, err
		}
		if err := report.WriteColumnProfile(res, filepath.Join(reportsDir, ColumnProfileFile)); err != nil {
			return nil, fmt.Errorf("write column profile: %w", err)
		}
	}

	logger.Info("analysis finished in %s", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// renderCharts draws every applicable chart. A failed chart becomes a
// warning; the run continues.
func renderCharts(ds *dataset.Dataset, res *report.Result, cfg *config.Settings, dir string, warnings []string) ([]string, []string) {
	r := viz.NewRenderer(dir, viz.Options{
		FigureWidth:  cfg.FigureWidth,
		FigureHeight: cfg.FigureHeight,
		Palette:      cfg.ColorPalette,
		Style:        cfg.Style,
		SampleSize:   cfg.SampleSizeForPlots,
		TopN:         cfg.TopNCategories,
	})

	var files []string
	add := func(name string, err error) {
		if err != nil {
			logger.Warn("chart failed: %v", err)
			warnings = append(warnings, fmt.Sprintf("chart failed: %v", err))
			return
		}
		if name != "" {
			files = append(files, filepath.Join(PlotsDir, name))
		}
	}

	if ds.NumRows > 0 {
		add(r.Overview(res.Profile))
		add(r.MissingBars(res.Profile))
	}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		switch col.Kind {
		case dataset.KindNumeric:
			add(r.Histogram(col))
			add(r.BoxPlot(col))
			add(r.OutlierScatter(col, flaggedRows(res.Outliers, col.Name)))
		case dataset.KindCategorical, dataset.KindBoolean:
			add(r.CountPlot(col, res.Categorical[col.Name]))
		}
	}
	add(r.CorrelationHeatmap(res.Corr))
	add(r.PairPlot(ds))
	return files, warnings
}

// flaggedRows returns the rows any method flagged for the column.
func flaggedRows(rep *outliers.Report, column string) []int {
	if rep == nil {
		return nil
	}
	if rep.Union != nil {
		return rep.Union[column]
	}
	for _, byCol := range rep.ByMethod {
		if cf, ok := byCol[column]; ok {
			return cf.Indices
		}
	}
	return nil
}
