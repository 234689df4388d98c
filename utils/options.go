package utils

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// SupportedFormats lists the image extensions the renderer can write.
var SupportedFormats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff", "tex"}

// Options is the resolved run configuration. Built once from the command
// line, validated, then only read.
type Options struct {
	PlotFormat string
	OutputDir  string // empty: next to each input file
	DPI        float64

	HideTotal bool
	HideMax   bool

	Title     string // empty: event id, else file name
	TimeLabel string
	AccLabel  string

	AccMinG   float64 // NaN: auto
	AccMaxG   float64 // NaN: auto
	TimeMinMs float64
	TimeMaxMs float64 // NaN: last sample

	PlotPowerSpectrum bool
	PSMinG2           float64 // NaN: auto
	PSMaxG2           float64 // NaN: auto

	SampleRateHz float64 // 0: use the file's own timing

	FailFast    bool
	SummaryPath string

	Style PlotStyle
}

// DefaultOptions returns the values used for flags left unset.
func DefaultOptions() Options {
	return Options{
		PlotFormat: "png",
		DPI:        96,
		TimeLabel:  "Time [ms]",
		AccLabel:   "Acceleration [g]",
		AccMinG:    math.NaN(),
		AccMaxG:    math.NaN(),
		TimeMinMs:  0,
		TimeMaxMs:  math.NaN(),
		PSMinG2:    math.NaN(),
		PSMaxG2:    math.NaN(),
		Style:      DefaultPlotStyle(),
	}
}

// Validate normalises the plot format and rejects inconsistent values.
func (o *Options) Validate() error {
	o.PlotFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(o.PlotFormat), "."))
	if !IsSupportedFormat(o.PlotFormat) {
		return &UsageError{Msg: fmt.Sprintf("unsupported plot format %q (want one of %s)",
			o.PlotFormat, strings.Join(SupportedFormats, ", "))}
	}
	if !(o.DPI > 0) {
		return &UsageError{Msg: fmt.Sprintf("--dpi must be positive, got %v", o.DPI)}
	}
	if o.SampleRateHz < 0 || math.IsNaN(o.SampleRateHz) || math.IsInf(o.SampleRateHz, 0) {
		return &UsageError{Msg: fmt.Sprintf("--sample-rate must be positive, got %v", o.SampleRateHz)}
	}
	if math.IsNaN(o.TimeMinMs) {
		return &UsageError{Msg: "--min-time must be a number"}
	}
	if err := checkRange("--min-acc", "--max-acc", o.AccMinG, o.AccMaxG); err != nil {
		return err
	}
	if err := checkRange("--min-time", "--max-time", o.TimeMinMs, o.TimeMaxMs); err != nil {
		return err
	}
	if err := checkRange("--min-ps", "--max-ps", o.PSMinG2, o.PSMaxG2); err != nil {
		return err
	}
	// The spectrum axis is logarithmic.
	if o.PSMinG2 <= 0 || o.PSMaxG2 <= 0 {
		return &UsageError{Msg: "--min-ps and --max-ps must be positive on the log scale"}
	}
	if err := o.Style.Validate(); err != nil {
		return &UsageError{Msg: err.Error()}
	}
	return nil
}

func checkRange(minFlag, maxFlag string, lo, hi float64) error {
	if !math.IsNaN(lo) && !math.IsNaN(hi) && lo >= hi {
		return &UsageError{Msg: fmt.Sprintf("%s (%v) must be below %s (%v)", minFlag, lo, maxFlag, hi)}
	}
	return nil
}

// IsSupportedFormat reports whether ext (lower case, no dot) can be rendered.
func IsSupportedFormat(ext string) bool {
	for _, f := range SupportedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

// OutputPath maps an input CSV to its image: same base name, extension
// replaced by the plot format, in OutputDir when set.
func (o *Options) OutputPath(csvPath string) string {
	dir := filepath.Dir(csvPath)
	if o.OutputDir != "" {
		dir = o.OutputDir
	}
	base := filepath.Base(csvPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"."+o.PlotFormat)
}
