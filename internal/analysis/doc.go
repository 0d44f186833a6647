// Package analysis extracts long-run behaviour from simulated trajectories.
//
//   - [DominantPeriod]: the strongest periodic component of a sampled series,
//     used to measure orbital periods from recorded tracks
//   - [LyapunovExponent]: the growth rate of the separation between two
//     nearby runs of the same system
//
// A positive exponent whose e-folding time is short compared with the orbital
// periods marks the configuration as chaotic:
//
//	lambda, err := analysis.LyapunovExponent(ctx, a, b, dt, steps)
//	if err == nil && lambda > 0 {
//	    fmt.Printf("e-folding time %.3g s\n", 1/lambda)
//	}
package analysis
