// Package video samples frames and encodes them into a clip.
package video

import "math/rand/v2"

// Sample picks n paths uniformly at random with replacement
func Sample(paths []string, n int, rng *rand.Rand) []string {
	if n <= 0 || len(paths) == 0 {
		return []string{}
	}

	picked := make([]string, n)
	for i := range picked {
		picked[i] = paths[rng.IntN(len(paths))]
	}
	return picked
}

// NewRand returns a generator seeded with seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
