package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"msr175-plot/utils"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type runFunc func(paths []string, opts *utils.Options) error

type cliFlags struct {
	opts      utils.Options
	stylePath string
	logLevel  string
	logFile   string
}

func newRootCmd(stderr io.Writer, run runFunc) *cobra.Command {
	f := &cliFlags{opts: utils.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "msr175-plot [flags] CSV_FILE...",
		Short: "Tool to plot MSR 175 acceleration data.",
		Long: `msr175-plot reads CSV exports of MSR175 shock/acceleration logs and
writes one time-series plot per file, next to the CSV, named after it
with the extension replaced by the plot format (ID-0.csv -> ID-0.png).

Range flags accept "nan" for auto scale.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &utils.UsageError{Msg: "no CSV files given"}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.resolve()
			if err != nil {
				return err
			}

			level, err := utils.ParseLogLevel(f.logLevel)
			if err != nil {
				return err
			}
			logger := utils.InitLogger(level, stderr, f.logFile)
			defer logger.Close()

			utils.L().Debug("plotting %d file(s) as %s", len(args), opts.PlotFormat)
			return run(args, &opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &utils.UsageError{Msg: err.Error()}
	})

	o := &f.opts
	fl := cmd.Flags()
	fl.SortFlags = false
	fl.StringVar(&o.PlotFormat, "plot-format", o.PlotFormat, "Extension of the image files for plots (png, svg, pdf, eps, jpg, tif, tex).")
	fl.StringVar(&o.OutputDir, "output-dir", "", "Directory for the plots (default: next to each CSV file).")
	fl.Float64Var(&o.DPI, "dpi", o.DPI, "DPI value for raster plot rendering.")
	fl.BoolVar(&o.HideTotal, "hide-total", false, "Hide total acceleration in the time series plot.")
	fl.BoolVar(&o.HideMax, "hide-max", false, "Hide maximum acceleration in the time series plot.")
	fl.Float64Var(&o.AccMinG, "min-acc", o.AccMinG, `Minimum acceleration in g for the time series plot. Specify "nan" for auto scale.`)
	fl.Float64Var(&o.AccMaxG, "max-acc", o.AccMaxG, `Maximum acceleration in g for the time series plot. Specify "nan" for auto scale.`)
	fl.Float64Var(&o.TimeMinMs, "min-time", o.TimeMinMs, "Minimum time in the time series plot in milliseconds.")
	fl.Float64Var(&o.TimeMaxMs, "max-time", o.TimeMaxMs, `Maximum time in the time series plot in milliseconds. Specify "nan" for auto scale.`)
	fl.BoolVar(&o.PlotPowerSpectrum, "plot-power-spectrum", false, "Plot power spectrum below the time series.")
	fl.Float64Var(&o.PSMinG2, "min-ps", o.PSMinG2, `Minimum power spectrum in g^2 for the plot. Specify "nan" for auto scale.`)
	fl.Float64Var(&o.PSMaxG2, "max-ps", o.PSMaxG2, `Maximum power spectrum in g^2 for the plot. Specify "nan" for auto scale.`)
	fl.StringVar(&o.Title, "title", "", "Plot title (default: event id, else file name).")
	fl.StringVar(&o.TimeLabel, "time-label", o.TimeLabel, "Label of the time axis.")
	fl.StringVar(&o.AccLabel, "acc-label", o.AccLabel, "Label of the acceleration axis.")
	fl.Float64Var(&o.SampleRateHz, "sample-rate", 0, "Sample rate in Hz for CSV files without a time column.")
	fl.StringVar(&f.stylePath, "style", "", "YAML plot style file.")
	fl.StringVar(&o.SummaryPath, "summary", "", "Write a CSV with one summary row per plotted file.")
	fl.BoolVar(&o.FailFast, "fail-fast", false, "Stop at the first file that cannot be plotted.")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	fl.StringVar(&f.logFile, "log-file", "", "Also append log lines to this file.")

	return cmd
}

// resolve loads the style file and validates the final options.
func (f *cliFlags) resolve() (utils.Options, error) {
	opts := f.opts
	if f.stylePath != "" {
		style, err := utils.LoadPlotStyle(f.stylePath)
		if err != nil {
			return opts, &utils.UsageError{Msg: err.Error()}
		}
		opts.Style = style
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// execute runs the command line and maps errors to exit codes.
func execute(args []string, stdout, stderr io.Writer, run runFunc) int {
	cmd := newRootCmd(stderr, run)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var ue *utils.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
		return exitUsage
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailed
}
