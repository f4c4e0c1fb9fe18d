// Package analysis provides frequency analysis of recorded runs.
//
//   - [FFT]: radix-2 fast Fourier transform
//   - [PowerSpectrum]: magnitude spectrum of mean-removed, padded samples
//   - [DominantFrequency]: strongest oscillation in a sampled signal
//
// A bouncing body's height, sampled once per frame:
//
//	hz, _, ok := analysis.DominantFrequency(heights, 1/fps)
package analysis
