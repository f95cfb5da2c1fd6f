// Package analysis characterises attractors numerically.
//
//   - [LyapunovExponent]: largest Lyapunov exponent from two nearby particles
//   - [Sweep]: exponent and section values across a parameter range
//   - [DominantFrequency]: strongest oscillation in a sampled coordinate
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(integ, x0, analysis.Options{Dt: 0.01, Steps: 20000})
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
