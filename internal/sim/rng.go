package sim

import "math/rand/v2"

// TrialSource returns the random stream for one trial. Streams are keyed by
// (seed, trial) so a trial draws the same values however trials are scheduled.
func TrialSource(seed int64, trial int) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(trial))
}
