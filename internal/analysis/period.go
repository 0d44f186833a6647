package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MinSamples is the shortest series DominantPeriod accepts.
const MinSamples = 8

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-constant frequency in samples taken every dt. The peak bin is refined by
// parabolic interpolation, so periods between bins are resolved; accuracy
// still degrades when the series spans only a few cycles.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	n := len(samples)
	if n < MinSamples {
		return 0, fmt.Errorf("%w: %d samples, need %d", ErrTooShort, n, MinSamples)
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("analysis: sample interval must be positive, got %g", dt)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, centered)
	mag := make([]float64, len(coeff))
	for i, c := range coeff {
		mag[i] = cmplx.Abs(c)
	}

	if maxAbs(centered) == 0 {
		return 0, ErrNoSignal
	}
	// bin 0 is the mean, already removed
	peak := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[peak] {
			peak = k
		}
	}

	freq := fft.Freq(peak)
	if peak > 1 && peak < len(mag)-1 {
		l, c, r := mag[peak-1], mag[peak], mag[peak+1]
		if den := l - 2*c + r; den != 0 {
			freq = (float64(peak) + 0.5*(l-r)/den) / float64(n)
		}
	}
	return dt / freq, nil
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
