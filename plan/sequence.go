/*
sequence.go - Deterministic pseudo-random sequence for seed runs

PURPOSE:
  All randomness used while planning and materializing a seed run flows
  through one Sequence instance, so that identical configuration plus an
  identical seed reproduces an identical run. The sequence is plain
  math/rand state behind a small API; it is per-run and never shared
  between goroutines.

SEED DERIVATION:
  When the caller does not supply an explicit seed, the numeric seed is
  derived from the run id with FNV-64a. Determinism is only promised
  within this implementation - reproducing the same output from another
  runtime's PRNG is a non-goal.

SEE ALSO:
  - quota.go: Uses the sequence for tie-breaking
  - planner.go: Scatter weights and project pool shuffling
*/
package plan

import (
	"hash/fnv"
	"math/rand"
)

// Sequence is a seeded pseudo-random source. Not safe for concurrent use;
// every seed run owns exactly one instance.
type Sequence struct {
	rng *rand.Rand
}

// NewSequence creates a sequence from a numeric seed.
func NewSequence(seed int64) *Sequence {
	return &Sequence{rng: rand.New(rand.NewSource(seed))}
}

// SeedFromRunID derives a numeric seed from a run id.
func SeedFromRunID(runID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(runID))
	return int64(h.Sum64())
}

// Next returns the next float in [0, 1).
func (s *Sequence) Next() float64 {
	return s.rng.Float64()
}

// IntBetween returns an int in [min, max], inclusive on both ends.
func (s *Sequence) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Chance returns true with probability p.
func (s *Sequence) Chance(p float64) bool {
	return s.Next() < p
}

// Pick returns a random element of items. Panics on an empty slice, like
// indexing would.
func Pick[T any](s *Sequence, items []T) T {
	return items[s.rng.Intn(len(items))]
}

// Shuffle permutes items in place.
func Shuffle[T any](s *Sequence, items []T) {
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// WeightedIndex picks an index proportional to weights. Non-positive
// weights contribute nothing; if no weight is positive the pick is uniform.
func (s *Sequence) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.rng.Intn(len(weights))
	}
	target := s.Next() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}
