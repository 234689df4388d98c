// Package spectrum computes per-channel power spectra of an acceleration
// series with gonum's real FFT.
package spectrum

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"msr175-plot/models"
)

// ErrTooShort is returned for series with fewer than two samples.
var ErrTooShort = errors.New("power spectrum needs at least two samples")

// ErrNoPeriod is returned when the sample period is not positive.
var ErrNoPeriod = errors.New("power spectrum needs a positive sample period")

// Spectrum is |FFT|² per channel for bins below the Nyquist index n/2.
type Spectrum struct {
	FreqHz []float64
	Power  map[models.Channel][]float64 // g²
}

// Compute returns the power spectrum of every present channel of s,
// assuming a constant sample period.
func Compute(s *models.Series, periodMs float64) (*Spectrum, error) {
	n := s.Len()
	if n < 2 {
		return nil, ErrTooShort
	}
	if !(periodMs > 0) {
		return nil, ErrNoPeriod
	}

	fs := 1000.0 / periodMs
	half := n / 2
	fft := fourier.NewFFT(n)

	sp := &Spectrum{
		FreqHz: make([]float64, half),
		Power:  make(map[models.Channel][]float64, len(s.Channels)),
	}
	for k := range sp.FreqHz {
		sp.FreqHz[k] = fft.Freq(k) * fs
	}

	var coeff []complex128
	for _, ch := range s.Channels {
		coeff = fft.Coefficients(coeff, s.Values(ch))
		power := make([]float64, half)
		for k := range power {
			a := cmplx.Abs(coeff[k])
			power[k] = a * a
		}
		sp.Power[ch] = power
	}
	return sp, nil
}
