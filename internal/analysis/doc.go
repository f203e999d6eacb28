// Package analysis post-processes run series.
//
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed series
//   - [DominantFrequency]: angular frequency of the strongest oscillation
//   - [GrowthRate]: exponential growth or damping rate of a positive series
//
// A decaying field energy gives a negative rate:
//
//	gamma := analysis.GrowthRate(result.Times[1:], result.FieldEnergy)
//	if gamma < 0 {
//	    // field is damped
//	}
package analysis
