// Package dice provides the randomness abstraction shared by damage rolls,
// evasion checks, spawning, and loot.
package dice

// Source is the randomness provider for every chance-based combat decision.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Chance reports whether a check with success probability p passes.
// p <= 0 never passes; p >= 1 always passes.
//
// Precondition: src must be non-nil.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Between returns a uniform random int in [lo, hi].
//
// Precondition: src must be non-nil; hi >= lo.
// Postcondition: lo <= result <= hi.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Weighted picks an index from weights with probability proportional to
// each weight. Non-positive weights are never picked.
//
// Postcondition: Returns -1 when no weight is positive; otherwise an index i
// with weights[i] > 0.
func Weighted(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := src.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if r < w {
			return i
		}
		r -= w
	}
	return last
}
