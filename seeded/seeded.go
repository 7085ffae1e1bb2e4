// Package seeded provides reproducible pseudo-random sequences for scene
// layout. Each caller that needs an independent stream builds its own
// Sequence; sequences are not safe for concurrent use.
package seeded

import "math/rand"

// Sequence returns the next value in [0,1) on every call.
type Sequence func() float64

// New returns a sequence that is fully determined by seed. Restarting a
// sequence means calling New again with the same seed.
func New(seed int64) Sequence {
	rng := rand.New(rand.NewSource(seed))
	return rng.Float64
}

// Between maps the next draw of next into [min, max).
func Between(min, max float64, next Sequence) float64 {
	return min + next()*(max-min)
}
