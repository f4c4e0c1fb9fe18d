package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. len(data) must be a power of two; use Pad for
// arbitrary input.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// Pad removes the mean and zero-pads to the next power of two. NaN samples
// count as the mean.
func Pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}

	mean, count := 0.0, 0
	for _, v := range data {
		if !math.IsNaN(v) {
			mean += v
			count++
		}
	}
	if count > 0 {
		mean /= float64(count)
	}

	out := make([]float64, n)
	for i, v := range data {
		if !math.IsNaN(v) {
			out[i] = v - mean
		}
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the transform of
// the padded input.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(Pad(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin for samples taken every dt seconds, and that bin's magnitude. It
// reports false when there are too few samples or no oscillation.
func DominantFrequency(data []float64, dt float64) (float64, float64, bool) {
	if len(data) < 4 || dt <= 0 {
		return 0, 0, false
	}
	ps := PowerSpectrum(data)

	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || peak < 1e-9 {
		return 0, 0, false
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), peak, true
}
