/*
rekl.go - Deriving follow-up (rekl) intents from placed mounts

PURPOSE:
  A configurable share of mount appointments gets a delayed follow-up
  appointment, standing in for accessory complaints. Only mounts whose
  project has an accessory are eligible; the rest are counted as
  missing-accessory reductions.

SELECTION:
  Eligibility per project is decided by an FNV-64a hash of the run's
  seed key plus the project's creation ordinal, mapped to a [0, 100)
  bucket and compared against the share. Hash-based selection keeps the
  subset stable without advancing the run's sequence, so toggling the
  share does not reshuffle everything downstream; hashing the seed key
  (not the run id) and the ordinal (not the generated project id) keeps
  the subset reproducible across runs with an explicit seed. When the
  share is positive and eligible mounts exist but the hash pass selects
  none, the eligible project with the smallest bucket is forced in: a
  non-zero share never silently yields zero follow-ups.
*/
package seed

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/warp/dispatch-engine/plan"
)

// reklBucket maps (seedKey, project ordinal) to a stable value in [0, 100).
func reklBucket(seedKey string, ordinal int) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", seedKey, ordinal)
	return float64(h.Sum64()%10000) / 100
}

// deriveRekls builds the rekl intent batch from the placed mounts.
// missingAccessory is the count of mounts skipped for lacking an
// accessory; intents still have to survive materialization.
func deriveRekls(seedKey string, mounts []plan.Placement, share float64, delayMin, delayMax int, seq *plan.Sequence) (intents []plan.Intent, missingAccessory int) {
	var eligible []plan.Placement
	for _, m := range mounts {
		if !m.Project.HasAccessory() {
			missingAccessory++
			continue
		}
		eligible = append(eligible, m)
	}
	if share <= 0 || len(eligible) == 0 {
		return nil, missingAccessory
	}

	selected := make([]plan.Placement, 0, len(eligible))
	forced := eligible[0]
	forcedBucket := reklBucket(seedKey, forced.Project.Ordinal)
	for _, m := range eligible {
		b := reklBucket(seedKey, m.Project.Ordinal)
		if b < share*100 {
			selected = append(selected, m)
		}
		if b < forcedBucket {
			forced, forcedBucket = m, b
		}
	}
	if len(selected) == 0 {
		selected = append(selected, forced)
	}

	for i, m := range selected {
		intents = append(intents, plan.Intent{
			Seq:          i,
			Kind:         plan.KindRekl,
			Project:      m.Project,
			TourID:       m.TourID,
			DurationDays: 1,
			DelayDays:    drawDelay(m.StartDate, delayMin, delayMax, seq),
			BaseDate:     m.StartDate,
		})
	}
	return intents, missingAccessory
}

// drawDelay picks a delay whose target day avoids the weekend: the
// range is shuffled and the first weekend-free delay wins. When every
// delay lands on a weekend (only possible for degenerate ranges) the
// minimum is returned and the candidate search shifts around it.
func drawDelay(base time.Time, delayMin, delayMax int, seq *plan.Sequence) int {
	delays := make([]int, 0, delayMax-delayMin+1)
	for d := delayMin; d <= delayMax; d++ {
		delays = append(delays, d)
	}
	plan.Shuffle(seq, delays)

	for _, d := range delays {
		if !plan.SpanTouchesWeekend(base.AddDate(0, 0, d), 1) {
			return d
		}
	}
	return delayMin
}
