// Package sim runs repeated confidence-interval experiments.
//
// A run draws NumSimulations independent samples of SampleSize values from a
// normal population, asks a [Method] for an interval per sample, and records
// whether each interval captured the population mean:
//
//   - [Params]: the inputs of one run
//   - [Method] / [Estimator]: pluggable interval-estimation strategy
//   - [Simulator]: sequential ([Simulator.Run]) and parallel
//     ([Simulator.RunParallel]) execution
//   - [Outcome]: ordered per-trial results plus capture count and rate
//
// # Example
//
//	s := sim.New(methods.NewZSigma())
//	out, err := s.Run(ctx, params, 42)
//	fmt.Println(out.Summary())
//
// # Determinism
//
// Every trial reads from its own stream derived from (seed, trial index), so
// the same seed yields bit-identical outcomes from Run and RunParallel.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe because attached metrics are
// stateful. Use one Simulator per goroutine.
package sim
