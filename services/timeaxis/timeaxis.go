// Package timeaxis derives the time axis of a parsed MSR175 series, either
// from its explicit time column or from the sampling rate.
package timeaxis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"msr175-plot/models"
	"msr175-plot/utils"
)

// Source tells where the time values came from.
type Source int

const (
	FromColumn Source = iota
	FromSampleRate
)

func (s Source) String() string {
	if s == FromColumn {
		return "time column"
	}
	return "sample rate"
}

// Axis holds one time value per sample, in milliseconds.
type Axis struct {
	TimesMs  []float64
	PeriodMs float64 // first interval, 0 with fewer than two samples
	Uniform  bool    // every interval equals PeriodMs to 1e-6 ms
	Source   Source
}

// Len returns the number of time values.
func (a *Axis) Len() int { return len(a.TimesMs) }

// LastMs returns the final time value.
func (a *Axis) LastMs() float64 {
	if len(a.TimesMs) == 0 {
		return 0
	}
	return a.TimesMs[len(a.TimesMs)-1]
}

// DurationMs is period times sample count, as the logger software reports it.
func (a *Axis) DurationMs() float64 {
	return a.PeriodMs * float64(len(a.TimesMs))
}

// SamplingFrequencyHz returns 1000 / period, or 0 when unknown.
func (a *Axis) SamplingFrequencyHz() float64 {
	if a.PeriodMs <= 0 {
		return 0
	}
	return 1000.0 / a.PeriodMs
}

// Build returns the time axis for s. Explicit timestamps win; otherwise
// sampleRateHz is used when positive, then the file's "Sampling Rate:" entry.
func Build(s *models.Series, sampleRateHz float64) (*Axis, error) {
	if s.HasTime {
		return fromColumn(s)
	}

	rate := sampleRateHz
	if rate <= 0 {
		var err error
		rate, err = rateFromMetadata(s)
		if err != nil {
			return nil, err
		}
	}

	period := 1000.0 / rate
	times := make([]float64, s.Len())
	for i := range times {
		times[i] = float64(i) * period
	}
	return &Axis{
		TimesMs:  times,
		PeriodMs: period,
		Uniform:  true,
		Source:   FromSampleRate,
	}, nil
}

func fromColumn(s *models.Series) (*Axis, error) {
	times := make([]float64, s.Len())
	for i, smp := range s.Samples {
		if i > 0 && smp.TimeMs < times[i-1] {
			return nil, &utils.ParseError{
				Path:   s.Path,
				Line:   smp.Row,
				Column: "time",
				Msg:    fmt.Sprintf("time %g ms goes backwards (previous %g ms)", smp.TimeMs, times[i-1]),
			}
		}
		times[i] = smp.TimeMs
	}

	a := &Axis{TimesMs: times, Uniform: true, Source: FromColumn}
	if len(times) < 2 {
		return a, nil
	}
	a.PeriodMs = round6(times[1] - times[0])
	for i := 2; i < len(times); i++ {
		if round6(times[i]-times[i-1]) != a.PeriodMs {
			a.Uniform = false
			break
		}
	}
	return a, nil
}

func rateFromMetadata(s *models.Series) (float64, error) {
	raw, ok := s.Metadata[models.MetaSamplingRate]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, &utils.ParseError{
			Path: s.Path,
			Msg:  "no time column and no sampling rate; pass --sample-rate",
		}
	}
	// Values may carry a unit, e.g. "1600 Hz".
	field := strings.Fields(raw)[0]
	rate, err := strconv.ParseFloat(field, 64)
	if err != nil || !(rate > 0) || math.IsInf(rate, 0) {
		return 0, &utils.ParseError{
			Path:   s.Path,
			Column: "Sampling Rate",
			Msg:    fmt.Sprintf("invalid sampling rate %q", raw),
		}
	}
	return rate, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
