package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k| for the non-negative frequencies of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the angular frequency of the strongest
// non-zero bin of a series sampled every dt, or 0 when the series is flat.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	best, bestPow := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPow {
			best, bestPow = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return 2 * math.Pi * float64(best) / (float64(len(data)) * dt)
}

// GrowthRate fits log(values) = a + gamma*t by least squares and returns
// gamma. Non-positive samples are skipped; fewer than two usable samples
// give NaN.
func GrowthRate(times, values []float64) float64 {
	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if i >= len(times) || v <= 0 {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, math.Log(v))
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	_, gamma := stat.LinearRegression(xs, ys, nil, false)
	return gamma
}
