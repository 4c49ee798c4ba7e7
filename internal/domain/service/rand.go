package service

// Rand is the randomness source consumed by the simulation services.
// *rand.Rand from math/rand/v2 satisfies it; tests substitute scripted
// sequences to pin down individual branches.
type Rand interface {
	// Float64 returns a draw from [0.0, 1.0).
	Float64() float64
	// IntN returns a draw from [0, n). It panics if n <= 0.
	IntN(n int) int
}

// uniformFloat draws from [lo, hi).
func uniformFloat(rng Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// uniformInt draws from [lo, hi] inclusive.
func uniformInt(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
