package utils

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ─── Plot style ─────────────────────────────────────────────────────────

type FigureStyle struct {
	WidthIn          float64 `yaml:"width_in"`
	HeightIn         float64 `yaml:"height_in"`
	SpectrumHeightIn float64 `yaml:"spectrum_height_in"` // total height with the spectrum panel
	Background       string  `yaml:"background"`
}

type LineStyle struct {
	WidthPt float64 `yaml:"width_pt"`
	X       string  `yaml:"x"`
	Y       string  `yaml:"y"`
	Z       string  `yaml:"z"`
	Total   string  `yaml:"total"`
}

type FontStyle struct {
	SizePt      float64 `yaml:"size_pt"`
	TitleSizePt float64 `yaml:"title_size_pt"`
}

// PlotStyle is the top-level structure of a --style YAML file.
// Fields left out of the file keep their DefaultPlotStyle value.
type PlotStyle struct {
	Figure FigureStyle `yaml:"figure"`
	Lines  LineStyle   `yaml:"lines"`
	Font   FontStyle   `yaml:"font"`
	Grid   bool        `yaml:"grid"`
}

// DefaultPlotStyle is a 6.4x4.8 in figure with a grid and the usual four line colours.
func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		Figure: FigureStyle{
			WidthIn:          6.4,
			HeightIn:         4.8,
			SpectrumHeightIn: 8.0,
			Background:       "white",
		},
		Lines: LineStyle{
			WidthPt: 1,
			X:       "steelblue",
			Y:       "darkorange",
			Z:       "forestgreen",
			Total:   "crimson",
		},
		Font: FontStyle{
			SizePt:      10,
			TitleSizePt: 12,
		},
		Grid: true,
	}
}

// LoadPlotStyle reads a style YAML on top of DefaultPlotStyle.
func LoadPlotStyle(path string) (PlotStyle, error) {
	style := DefaultPlotStyle()
	data, err := os.ReadFile(path)
	if err != nil {
		return style, fmt.Errorf("read plot style: %w", err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, fmt.Errorf("parse plot style: %w", err)
	}
	if err := style.Validate(); err != nil {
		return style, fmt.Errorf("plot style %s: %w", path, err)
	}
	return style, nil
}

// Validate checks sizes are positive and every colour name is known.
func (s PlotStyle) Validate() error {
	if s.Figure.WidthIn <= 0 || s.Figure.HeightIn <= 0 || s.Figure.SpectrumHeightIn <= 0 {
		return fmt.Errorf("figure sizes must be positive")
	}
	if s.Lines.WidthPt <= 0 {
		return fmt.Errorf("line width must be positive")
	}
	if s.Font.SizePt <= 0 || s.Font.TitleSizePt <= 0 {
		return fmt.Errorf("font sizes must be positive")
	}
	for _, name := range []string{s.Figure.Background, s.Lines.X, s.Lines.Y, s.Lines.Z, s.Lines.Total} {
		if _, err := ColorByName(name); err != nil {
			return err
		}
	}
	return nil
}

// ColorByName resolves an SVG 1.1 colour keyword such as "steelblue".
func ColorByName(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", name)
	}
	return c, nil
}
