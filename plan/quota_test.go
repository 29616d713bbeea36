package plan

import "testing"

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestAllocate_SumsExactlyToTotal(t *testing.T) {
	// GIVEN: assorted totals and weight vectors
	// THEN: the parts always sum exactly to the total
	cases := []struct {
		name    string
		total   int
		weights []float64
	}{
		{"even split", 10, []float64{1, 1}},
		{"skewed", 7, []float64{5, 1, 1}},
		{"thirds force remainders", 10, []float64{1, 1, 1}},
		{"single bucket", 9, []float64{3.5}},
		{"zero total", 0, []float64{1, 2, 3}},
		{"all zero weights", 11, []float64{0, 0, 0, 0}},
		{"negative weights ignored", 6, []float64{-1, 2, -3, 4}},
		{"more buckets than units", 2, []float64{1, 1, 1, 1, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seq := NewSequence(1)
			got := Allocate(tc.total, tc.weights, seq)
			if len(got) != len(tc.weights) {
				t.Fatalf("expected %d buckets, got %d", len(tc.weights), len(got))
			}
			if sum(got) != tc.total {
				t.Errorf("parts %v sum to %d, want %d", got, sum(got), tc.total)
			}
			for i, c := range got {
				if c < 0 {
					t.Errorf("bucket %d is negative: %d", i, c)
				}
			}
		})
	}
}

func TestAllocate_ProportionalToWeights(t *testing.T) {
	// GIVEN: a 3:1 weight split of 100 units
	seq := NewSequence(42)
	got := Allocate(100, []float64{3, 1}, seq)

	// THEN: the split is exactly 75/25 (no remainders involved)
	if got[0] != 75 || got[1] != 25 {
		t.Errorf("expected [75 25], got %v", got)
	}
}

func TestAllocate_EmptyWeights(t *testing.T) {
	seq := NewSequence(1)
	if got := Allocate(5, nil, seq); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestAllocate_DeterministicForSameSeed(t *testing.T) {
	// GIVEN: a split with forced ties (uniform weights, remainder units)
	a := Allocate(10, []float64{1, 1, 1}, NewSequence(7))
	b := Allocate(10, []float64{1, 1, 1}, NewSequence(7))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different splits: %v vs %v", a, b)
		}
	}
}
