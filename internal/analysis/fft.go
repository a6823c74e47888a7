package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/dirksavage88/camzoom/internal/metrics"
)

// PowerSpectrum returns the one-sided power spectrum of the FOV
// trajectory and the frequency of each bin in Hz. The mean is removed
// so the DC bin does not mask oscillation.
func PowerSpectrum(samples []metrics.Sample, dt float64) (freqs, power []float64) {
	n := len(samples)
	if n < 4 || dt <= 0 {
		return nil, nil
	}

	series := make([]float64, n)
	mean := 0.0
	for i, smp := range samples {
		series[i] = smp.Hfov
		mean += smp.Hfov
	}
	mean /= float64(n)
	for i := range series {
		series[i] -= mean
	}

	spectrum := fft.FFTReal(series)
	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	span := float64(n) * dt
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / span
		power[k] = cmplx.Abs(spectrum[k]) * cmplx.Abs(spectrum[k])
	}
	return freqs, power
}

// DominantFrequency returns the strongest non-DC frequency in the FOV
// trajectory, in Hz, or 0 when there is nothing to measure.
func DominantFrequency(samples []metrics.Sample, dt float64) float64 {
	freqs, power := PowerSpectrum(samples, dt)
	if len(power) < 2 {
		return 0
	}

	best, bestPower := 0.0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestPower {
			best, bestPower = freqs[k], power[k]
		}
	}
	return best
}
