package views

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"msr175-plot/models"
	"msr175-plot/services/spectrum"
	"msr175-plot/utils"
)

// Chart is everything drawn into one output image.
type Chart struct {
	Series   *models.Series
	TimesMs  []float64          // aligned one-to-one with Series.Samples
	Spectrum *spectrum.Spectrum // nil: time series only
}

// PlotRenderer draws charts with gonum/plot according to the run options.
type PlotRenderer struct {
	opts   *utils.Options
	colors map[string]color.Color
}

// NewPlotRenderer resolves the style colours once for the whole run.
func NewPlotRenderer(opts *utils.Options) (*PlotRenderer, error) {
	st := opts.Style
	names := map[string]string{
		"X":     st.Lines.X,
		"Y":     st.Lines.Y,
		"Z":     st.Lines.Z,
		"Total": st.Lines.Total,
		"bg":    st.Figure.Background,
	}
	colors := make(map[string]color.Color, len(names))
	for k, n := range names {
		c, err := utils.ColorByName(n)
		if err != nil {
			return nil, err
		}
		colors[k] = c
	}
	return &PlotRenderer{opts: opts, colors: colors}, nil
}

// Render draws the chart and writes it to outPath. The image is written to a
// temporary file next to outPath and renamed into place, so a failure never
// leaves a partial image behind.
func (r *PlotRenderer) Render(ch *Chart, outPath string) error {
	if ch.Series.Len() == 0 || len(ch.TimesMs) != ch.Series.Len() {
		return fmt.Errorf("render %s: %d samples but %d time values",
			ch.Series.Path, ch.Series.Len(), len(ch.TimesMs))
	}

	ts, err := r.timeSeriesPlot(ch)
	if err != nil {
		return fmt.Errorf("render %s: %w", ch.Series.Path, err)
	}

	st := r.opts.Style.Figure
	width := vg.Length(st.WidthIn) * vg.Inch
	height := vg.Length(st.HeightIn) * vg.Inch

	var ps *plot.Plot
	if ch.Spectrum != nil {
		ps, err = r.spectrumPlot(ch.Spectrum)
		if err != nil {
			return fmt.Errorf("render %s: %w", ch.Series.Path, err)
		}
		height = vg.Length(st.SpectrumHeightIn) * vg.Inch
	}

	c, err := r.newCanvas(width, height)
	if err != nil {
		return fmt.Errorf("render %s: %w", ch.Series.Path, err)
	}
	dc := draw.New(c)
	if ps == nil {
		ts.Draw(dc)
	} else {
		tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter * 4, PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2}
		canvases := plot.Align([][]*plot.Plot{{ts}, {ps}}, tiles, dc)
		ts.Draw(canvases[0][0])
		ps.Draw(canvases[1][0])
	}

	return writeAtomic(outPath, c)
}

func (r *PlotRenderer) timeSeriesPlot(ch *Chart) (*plot.Plot, error) {
	o := r.opts
	s := ch.Series

	p := r.newPlot()
	p.Title.Text = r.title(s)
	p.X.Label.Text = o.TimeLabel
	p.Y.Label.Text = o.AccLabel

	for _, c := range s.Channels {
		if err := r.addLine(p, c.String(), ch.TimesMs, s.Values(c)); err != nil {
			return nil, err
		}
	}

	var total []float64
	if !o.HideTotal {
		total = s.Total()
		if err := r.addLine(p, "Total", ch.TimesMs, total); err != nil {
			return nil, err
		}
	}

	// X: [min-time, max-time or last sample].
	xMin := o.TimeMinMs
	xMax := o.TimeMaxMs
	if math.IsNaN(xMax) {
		xMax = ch.TimesMs[len(ch.TimesMs)-1]
	}
	if xMax <= xMin {
		xMax = xMin + 1
	}

	// Y: auto, each given bound overrides its side.
	yMin, yMax := linearRange(p.Y.Min, p.Y.Max, o.AccMinG, o.AccMaxG)

	if total != nil && !o.HideMax {
		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: xMax * 0.98, Y: yMax * 0.95}},
			Labels: []string{fmt.Sprintf("Max: %.1f g", floats.Max(total))},
		})
		if err != nil {
			return nil, err
		}
		lbl.TextStyle[0].XAlign = draw.XRight
		lbl.TextStyle[0].YAlign = draw.YTop
		lbl.TextStyle[0].Font.Size = vg.Points(r.opts.Style.Font.SizePt)
		p.Add(lbl)
	}

	// Add() widens the axes to fit every plotter; pin them last.
	p.X.Min, p.X.Max = xMin, xMax
	p.Y.Min, p.Y.Max = yMin, yMax
	return p, nil
}

func (r *PlotRenderer) spectrumPlot(sp *spectrum.Spectrum) (*plot.Plot, error) {
	o := r.opts

	p := r.newPlot()
	p.X.Label.Text = "Frequency [Hz]"
	p.Y.Label.Text = "Power Spectrum [g²]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	lines := 0
	for _, c := range models.AllChannels {
		power, ok := sp.Power[c]
		if !ok {
			continue
		}
		// Zero bins have no place on a log axis.
		var xs, ys []float64
		for k, v := range power {
			if v > 0 {
				xs = append(xs, sp.FreqHz[k])
				ys = append(ys, v)
			}
		}
		if len(xs) == 0 {
			continue
		}
		if err := r.addLine(p, c.String(), xs, ys); err != nil {
			return nil, err
		}
		lines++
	}
	if lines == 0 {
		return nil, errors.New("power spectrum has no positive values to plot")
	}

	xMax := sp.FreqHz[len(sp.FreqHz)-1]
	if xMax <= 0 {
		xMax = 1
	}
	yMin, yMax := logRange(p.Y.Min, p.Y.Max, o.PSMinG2, o.PSMaxG2)
	p.X.Min, p.X.Max = 0, xMax
	p.Y.Min, p.Y.Max = yMin, yMax
	return p, nil
}

// linearRange applies the optional bounds lo/hi (NaN: auto) to the data
// range and keeps the result non-empty.
func linearRange(dataMin, dataMax, lo, hi float64) (float64, float64) {
	yMin, yMax := dataMin, dataMax
	if !math.IsNaN(lo) {
		yMin = lo
	}
	if !math.IsNaN(hi) {
		yMax = hi
	}
	if yMin >= yMax {
		switch {
		case !math.IsNaN(lo) && math.IsNaN(hi):
			yMax = yMin + 1
		case math.IsNaN(lo) && !math.IsNaN(hi):
			yMin = yMax - 1
		default:
			yMin, yMax = yMin-1, yMax+1
		}
	}
	return yMin, yMax
}

// logRange is linearRange for a log axis: bounds stay positive and an empty
// range is widened by a decade on each side instead of by ±1.
func logRange(dataMin, dataMax, lo, hi float64) (float64, float64) {
	yMin, yMax := dataMin, dataMax
	if !math.IsNaN(lo) {
		yMin = lo
	}
	if !math.IsNaN(hi) {
		yMax = hi
	}
	if yMin >= yMax {
		switch {
		case !math.IsNaN(lo) && math.IsNaN(hi):
			yMax = yMin * 100
		case math.IsNaN(lo) && !math.IsNaN(hi):
			yMin = yMax / 100
		default:
			yMin, yMax = yMin/10, yMax*10
		}
	}
	return yMin, yMax
}

func (r *PlotRenderer) newPlot() *plot.Plot {
	st := r.opts.Style
	p := plot.New()
	p.BackgroundColor = r.colors["bg"]

	size := vg.Points(st.Font.SizePt)
	p.Title.TextStyle.Font.Size = vg.Points(st.Font.TitleSizePt)
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Legend.TextStyle.Font.Size = size

	// Legend at lower right.
	p.Legend.Top = false
	p.Legend.Left = false
	p.Legend.Padding = vg.Points(5)

	if st.Grid {
		p.Add(plotter.NewGrid())
	}
	return p
}

func (r *PlotRenderer) addLine(p *plot.Plot, name string, xs, ys []float64) error {
	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("line %s: %w", name, err)
	}
	line.Color = r.colors[name]
	line.Width = vg.Points(r.opts.Style.Lines.WidthPt)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func (r *PlotRenderer) title(s *models.Series) string {
	if r.opts.Title != "" {
		return r.opts.Title
	}
	if id := s.EventID(); id != "" {
		return "Event " + id
	}
	return s.Name()
}

// newCanvas returns a canvas for the run's format. Raster formats honour
// --dpi; vector formats go through draw.NewFormattedCanvas.
func (r *PlotRenderer) newCanvas(w, h vg.Length) (vg.CanvasWriterTo, error) {
	format := r.opts.PlotFormat
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		dpi := int(math.Round(r.opts.DPI))
		if dpi < 1 {
			dpi = 1
		}
		img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(r.colors["bg"]))
		switch format {
		case "png":
			return vgimg.PngCanvas{Canvas: img}, nil
		case "jpg", "jpeg":
			return vgimg.JpegCanvas{Canvas: img}, nil
		default:
			return vgimg.TiffCanvas{Canvas: img}, nil
		}
	}
	return draw.NewFormattedCanvas(w, h, format)
}

func writeAtomic(outPath string, c vg.CanvasWriterTo) error {
	dir, base := filepath.Split(outPath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &utils.WriteError{Path: outPath, Err: err}
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &utils.WriteError{Path: outPath, Err: err}
	}

	if _, err := c.WriteTo(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &utils.WriteError{Path: outPath, Err: err}
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return &utils.WriteError{Path: outPath, Err: err}
	}
	return nil
}
