package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k|^2 for the non-negative frequency bins of the
// mean-removed series, so a constant offset does not swamp bin 0.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		a := cmplx.Abs(bins[i])
		ps[i] = a * a
	}
	return ps
}

// DominantFrequency returns the strongest non-zero bin of a power spectrum
// as cycles per sample of the original series of length n.
func DominantFrequency(ps []float64, n int) (freq float64, bin int) {
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			bin = i
		}
	}
	if n == 0 {
		return 0, bin
	}
	return float64(bin) / float64(n), bin
}
