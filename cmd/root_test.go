package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msr175-plot/utils"
)

type capture struct {
	called bool
	paths  []string
	opts   utils.Options
}

func (c *capture) run(paths []string, opts *utils.Options) error {
	c.called = true
	c.paths = paths
	c.opts = *opts
	return nil
}

func TestExecuteDefaults(t *testing.T) {
	var c capture
	var stdout, stderr bytes.Buffer

	code := execute([]string{"ID-0.csv", "ID-1.csv"}, &stdout, &stderr, c.run)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if len(c.paths) != 2 || c.paths[0] != "ID-0.csv" {
		t.Errorf("unexpected paths %v", c.paths)
	}
	if c.opts.PlotFormat != "png" || c.opts.DPI != 96 {
		t.Errorf("unexpected defaults %+v", c.opts)
	}
	if !math.IsNaN(c.opts.AccMinG) || !math.IsNaN(c.opts.TimeMaxMs) {
		t.Error("range defaults should be auto")
	}
	if got := c.opts.OutputPath("ID-0.csv"); got != "ID-0.png" {
		t.Errorf("expected ID-0.png, got %s", got)
	}
}

func TestExecuteFlags(t *testing.T) {
	var c capture
	var stdout, stderr bytes.Buffer

	args := []string{
		"--plot-format", "SVG",
		"--dpi", "150",
		"--hide-total",
		"--min-acc", "-20", "--max-acc", "nan",
		"--max-time", "50",
		"--plot-power-spectrum", "--min-ps", "1e-4",
		"--sample-rate", "1600",
		"--title", "Drop",
		"--fail-fast",
		"ID-0.csv",
	}
	if code := execute(args, &stdout, &stderr, c.run); code != exitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}

	o := c.opts
	if o.PlotFormat != "svg" {
		t.Errorf("expected svg, got %s", o.PlotFormat)
	}
	if got := o.OutputPath("ID-0.csv"); got != "ID-0.svg" {
		t.Errorf("expected ID-0.svg, got %s", got)
	}
	if o.DPI != 150 || !o.HideTotal || o.HideMax {
		t.Errorf("unexpected flags %+v", o)
	}
	if o.AccMinG != -20 || !math.IsNaN(o.AccMaxG) || o.TimeMaxMs != 50 {
		t.Errorf("unexpected ranges %+v", o)
	}
	if !o.PlotPowerSpectrum || o.PSMinG2 != 1e-4 || o.SampleRateHz != 1600 {
		t.Errorf("unexpected spectrum flags %+v", o)
	}
	if o.Title != "Drop" || !o.FailFast {
		t.Errorf("unexpected flags %+v", o)
	}
}

func TestExecuteNoFiles(t *testing.T) {
	dir := t.TempDir()
	var c capture
	var stdout, stderr bytes.Buffer

	code := execute([]string{"--output-dir", filepath.Join(dir, "out")}, &stdout, &stderr, c.run)
	if code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if c.called {
		t.Error("run must not be called without files")
	}
	if !strings.Contains(stderr.String(), "no CSV files given") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("no files may be created on a usage error")
	}
}

func TestExecuteHelp(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		var c capture
		var stdout, stderr bytes.Buffer

		code := execute([]string{flag}, &stdout, &stderr, c.run)
		if code != exitOK {
			t.Fatalf("%s: expected exit 0, got %d", flag, code)
		}
		if c.called {
			t.Errorf("%s: run must not be called", flag)
		}
		if !strings.Contains(stdout.String(), "--plot-format") {
			t.Errorf("%s: help should list --plot-format: %q", flag, stdout.String())
		}
	}
}

func TestExecuteUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":   {"--bogus", "a.csv"},
		"bad format":     {"--plot-format", "bmp", "a.csv"},
		"bad number":     {"--dpi", "many", "a.csv"},
		"bad log level":  {"--log-level", "loud", "a.csv"},
		"inverted range": {"--min-acc", "5", "--max-acc", "1", "a.csv"},
		"missing style":  {"--style", "/nonexistent/style.yaml", "a.csv"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var c capture
			var stdout, stderr bytes.Buffer
			if code := execute(args, &stdout, &stderr, c.run); code != exitUsage {
				t.Errorf("expected exit %d, got %d (%s)", exitUsage, code, stderr.String())
			}
			if c.called {
				t.Error("run must not be called")
			}
		})
	}
}

func TestExecuteRunFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	failing := func([]string, *utils.Options) error {
		return &utils.ParseError{Path: "a.csv", Msg: "broken"}
	}
	if code := execute([]string{"a.csv"}, &stdout, &stderr, failing); code != exitFailed {
		t.Errorf("expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(stderr.String(), "a.csv: broken") {
		t.Errorf("error should name the file: %q", stderr.String())
	}
}

func TestExecuteStyleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	if err := os.WriteFile(path, []byte("grid: false\nlines:\n  width_pt: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var c capture
	var stdout, stderr bytes.Buffer
	if code := execute([]string{"--style", path, "a.csv"}, &stdout, &stderr, c.run); code != exitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if c.opts.Style.Grid || c.opts.Style.Lines.WidthPt != 2 {
		t.Errorf("style not applied: %+v", c.opts.Style)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ID-0.csv")
	data := "Time (msec),X (g),Y (g),Z (g)\n0,0,0,1\n0.5,1,0,1\n1,0,1,1\n"
	if err := os.WriteFile(in, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := execute([]string{"--log-level", "error", "--plot-format", "svg", in}, &stdout, &stderr, plotFiles)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "ID-0.svg")); err != nil {
		t.Fatalf("plot missing: %v", err)
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Time (msec)\n0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stderr.Reset()
	code = execute([]string{"--log-level", "error", bad}, &stdout, &stderr, plotFiles)
	if code != exitFailed {
		t.Fatalf("expected exit %d, got %d", exitFailed, code)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.png")); !os.IsNotExist(err) {
		t.Error("failed file must not produce a plot")
	}
}

func TestExecuteCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, sub := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, sub, "ID-0.csv")
		if err := os.WriteFile(path, []byte("Time (msec),X (g),Y (g),Z (g)\n0,0,0,1\n"), 0644); err != nil {
			t.Fatal(err)
		}
		inputs = append(inputs, path)
	}
	outDir := filepath.Join(dir, "plots")

	var stdout, stderr bytes.Buffer
	args := append([]string{"--log-level", "error", "--output-dir", outDir}, inputs...)
	if code := execute(args, &stdout, &stderr, plotFiles); code != exitUsage {
		t.Fatalf("expected exit %d, got %d (%s)", exitUsage, code, stderr.String())
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output directory must not be created when outputs collide")
	}
}
