// Package analysis studies how interval coverage responds to its inputs.
//
//   - [Sweep]: rerun the simulator across a range of confidence levels or
//     sample sizes and record nominal vs empirical coverage
//   - [Linspace]: evenly spaced sweep values
//   - [WriteTable] / [PlotCoverage]: tabular and ASCII renderings
//   - [Ensemble]: spread of the capture rate over consecutive seeds
//
// # Coverage
//
// For a correct interval method the empirical capture rate tracks the nominal
// level as the number of simulations grows:
//
//	pts, err := analysis.Sweep(ctx, s, base, 42, analysis.AxisConfidence,
//	    analysis.Linspace(0.80, 0.99, 20), 0)
//	fmt.Print(analysis.PlotCoverage(pts, 70, 12))
//
// Every point reuses the same seed, so along the confidence axis the sample
// means are identical and only the interval widths change.
package analysis
