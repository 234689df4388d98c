package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"msr175-plot/models"
	"msr175-plot/services/ingest"
	"msr175-plot/services/spectrum"
	"msr175-plot/services/timeaxis"
	"msr175-plot/utils"
	"msr175-plot/views"
)

// PlotController drives the per-file pipeline:
//
//	CSV ──► Series ──► time axis ──► (spectrum) ──► image
//	                                     │
//	                                summary row
//
// Files are processed one after another. A failing file is reported and
// the run moves on, unless Options.FailFast is set.
type PlotController struct {
	opts     *utils.Options
	renderer *views.PlotRenderer
	summary  *views.CSVWriter

	processed int
	failed    []string
}

// NewPlotController prepares the renderer, the output directory and the
// optional summary CSV.
func NewPlotController(opts *utils.Options) (*PlotController, error) {
	renderer, err := views.NewPlotRenderer(opts)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, &utils.WriteError{Path: opts.OutputDir, Err: err}
		}
	}

	pc := &PlotController{opts: opts, renderer: renderer}

	if opts.SummaryPath != "" {
		pc.summary, err = views.NewCSVWriter(opts.SummaryPath, models.EventSummary{}.CSVHeader())
		if err != nil {
			return nil, err
		}
	}
	return pc, nil
}

// CheckOutputPaths rejects runs where two different inputs map to the same
// image, e.g. a/ID-0.csv and b/ID-0.csv with --output-dir. Listing the same
// input twice is allowed; the second plot overwrites the first identically.
func CheckOutputPaths(paths []string, opts *utils.Options) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		in := filepath.Clean(path)
		out := filepath.Clean(opts.OutputPath(path))
		if prev, ok := seen[out]; ok && prev != in {
			return &utils.UsageError{Msg: fmt.Sprintf("%s and %s would both be plotted to %s", prev, path, out)}
		}
		seen[out] = in
	}
	return nil
}

// Run processes every path in order and closes the summary file.
// The returned error joins every per-file failure.
func (pc *PlotController) Run(paths []string) error {
	if err := CheckOutputPaths(paths, pc.opts); err != nil {
		pc.Close()
		return err
	}

	var errs []error
	for _, path := range paths {
		if _, err := pc.ProcessFile(path); err != nil {
			utils.L().Error("%v", err)
			pc.failed = append(pc.failed, path)
			errs = append(errs, err)
			if pc.opts.FailFast {
				utils.L().Warn("--fail-fast: skipping %d remaining file(s)", len(paths)-pc.processed-len(pc.failed))
				break
			}
		}
	}

	if err := pc.Close(); err != nil {
		errs = append(errs, err)
	}

	utils.L().Info("done: %d plotted, %d failed", pc.processed, len(pc.failed))
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d file(s) failed: %w", len(pc.failed), len(paths), errors.Join(errs...))
	}
	return nil
}

// ProcessFile turns one CSV into one image and returns its summary.
func (pc *PlotController) ProcessFile(path string) (*models.EventSummary, error) {
	series, err := ingest.ReadMSR175CSV(path)
	if err != nil {
		return nil, err
	}
	utils.L().Info("Loaded data from %s (%d samples, channels %v)", path, series.Len(), series.Channels)

	axis, err := timeaxis.Build(series, pc.opts.SampleRateHz)
	if err != nil {
		return nil, err
	}
	utils.L().Debug("%s: time axis from %s, period %.6f ms", path, axis.Source, axis.PeriodMs)
	if !axis.Uniform {
		utils.L().Warn("%s: samples are not evenly spaced; period taken from the first interval", path)
	}

	chart := &views.Chart{Series: series, TimesMs: axis.TimesMs}
	if pc.opts.PlotPowerSpectrum {
		sp, err := spectrum.Compute(series, axis.PeriodMs)
		if err != nil {
			utils.L().Warn("%s: %v; plotting time series only", path, err)
		} else {
			chart.Spectrum = sp
		}
	}

	plotPath := pc.opts.OutputPath(path)
	if err := pc.renderer.Render(chart, plotPath); err != nil {
		return nil, err
	}
	utils.L().Info("Generated the plot as %s", plotPath)

	sum := &models.EventSummary{
		File:             path,
		EventID:          series.EventID(),
		Samples:          series.Len(),
		SamplingPeriodMs: axis.PeriodMs,
		DurationMs:       axis.DurationMs(),
		MaxTotalG:        floats.Max(series.Total()),
		PlotPath:         plotPath,
	}
	utils.L().Info("%s: event %q, sampling frequency %.1f Hz, duration %.3f ms, max %.2f g",
		path, sum.EventID, sum.SamplingFrequencyHz(), sum.DurationMs, sum.MaxTotalG)

	if pc.summary != nil {
		pc.summary.WriteRecord(sum)
	}
	pc.processed++
	return sum, nil
}

// Close flushes the summary CSV, if any. Safe to call more than once.
func (pc *PlotController) Close() error {
	if pc.summary == nil {
		return nil
	}
	err := pc.summary.Close()
	pc.summary = nil
	return err
}

// Processed returns the number of images written.
func (pc *PlotController) Processed() int { return pc.processed }

// Failed returns the paths that could not be plotted, in input order.
func (pc *PlotController) Failed() []string { return pc.failed }
