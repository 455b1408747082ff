// Package analysis provides post-run tools for particle simulations.
//
//   - [PowerSpectrum]: FFT power of a per-tick series such as kinetic energy
//   - [DominantFrequency]: strongest oscillation in a spectrum
//   - [ParameterScan]: sweep one physics parameter and record settled values
//   - [DensityGrid]: bin particle positions into cells for ASCII display
//
// # Settling
//
// A fluid that has come to rest on the floor shows a flat energy series and
// a spectrum with no dominant bin:
//
//	ps := analysis.PowerSpectrum(result.Energy)
//	freq, _ := analysis.DominantFrequency(ps, len(result.Energy))
package analysis
