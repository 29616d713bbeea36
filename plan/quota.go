/*
quota.go - Largest-remainder integer apportionment

PURPOSE:
  Splits an integer total across weighted buckets so that the parts sum
  exactly to the total. Used for the 1/2/3-day duration split and the
  per-tour / per-week intent counts.

METHOD (largest remainder):
  1. Normalize weights (uniform fallback when all are zero or invalid)
  2. Compute exact proportional shares with decimal arithmetic
  3. Floor every share
  4. Hand the remaining units to the buckets with the largest fractional
     remainder, one at a time; exact ties are broken by the run sequence

GUARANTEE:
  sum(result) == total for every call, including total == 0 and a single
  bucket. This is what keeps the planner's intent accounting exact.
*/
package plan

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Allocate splits total across len(weights) buckets by the largest-remainder
// method. Negative weights are treated as zero; if no weight is positive the
// split falls back to uniform weights.
func Allocate(total int, weights []float64, seq *Sequence) []int {
	counts := make([]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return counts
	}

	sum := decimal.Zero
	normalized := make([]decimal.Decimal, len(weights))
	for i, w := range weights {
		if w > 0 {
			normalized[i] = decimal.NewFromFloat(w)
			sum = sum.Add(normalized[i])
		}
	}
	if sum.IsZero() {
		// Uniform fallback
		for i := range normalized {
			normalized[i] = decimal.NewFromInt(1)
		}
		sum = decimal.NewFromInt(int64(len(weights)))
	}

	totalDec := decimal.NewFromInt(int64(total))
	assigned := 0
	remainders := make([]decimal.Decimal, len(weights))
	for i := range normalized {
		share := normalized[i].Div(sum).Mul(totalDec)
		floor := share.Floor()
		counts[i] = int(floor.IntPart())
		remainders[i] = share.Sub(floor)
		assigned += counts[i]
	}

	// Distribute leftover units to the largest remainders; exact ties are
	// broken by a per-bucket random jitter drawn once, in index order, so
	// the result stays reproducible.
	leftover := total - assigned
	if leftover <= 0 {
		return counts
	}
	jitter := make([]float64, len(weights))
	for i := range jitter {
		jitter[i] = seq.Next()
	}
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		cmp := remainders[order[a]].Cmp(remainders[order[b]])
		if cmp != 0 {
			return cmp > 0
		}
		return jitter[order[a]] > jitter[order[b]]
	})
	for i := 0; i < leftover; i++ {
		counts[order[i%len(order)]]++
	}
	return counts
}
