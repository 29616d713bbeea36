/*
planner.go - Mount appointment intent planning

PURPOSE:
  Turns the run configuration into an abstract list of mount intents,
  before anything touches the store. The planner decides HOW MANY
  appointments of which duration go to which tour in which week; the
  materializer later decides WHERE exactly (date + crew) each one lands.

DISTRIBUTION:
  - total intents = projects x appointmentsPerProject
  - durations: largest-remainder split of the 1/2/3-day weights
  - tours: weights drawn as Next()^scatter, so some tours end up
    noticeably busier than others
  - weeks: each tour's count is split across the window's week buckets
    with mildly random weights
  - projects: drawn from a shuffled pool that contains every project
    exactly appointmentsPerProject times, with a small chance of
    deferring a position to break up machine-like regularity
*/
package plan

import "math"

// PlannerConfig is the planner's slice of the run configuration.
type PlannerConfig struct {
	Projects               []ProjectContext
	TourIDs                []string
	AppointmentsPerProject int
	Weeks                  int

	// Relative weights for 1-, 2- and 3-day appointments.
	DurationWeights [3]float64

	// Scatter skews the per-tour load; higher values concentrate more
	// intents on fewer tours.
	Scatter float64

	// SkipChance defers one project-pool position during drawing.
	SkipChance float64
}

// PlanMounts builds the full mount intent list for a run.
func PlanMounts(cfg PlannerConfig, seq *Sequence) []Intent {
	total := len(cfg.Projects) * cfg.AppointmentsPerProject
	if total == 0 || len(cfg.TourIDs) == 0 {
		return nil
	}

	durations := durationList(total, cfg.DurationWeights, seq)
	tourCounts := Allocate(total, scatterWeights(len(cfg.TourIDs), cfg.Scatter, seq), seq)
	pool := newProjectPool(cfg.Projects, cfg.AppointmentsPerProject, seq)

	intents := make([]Intent, 0, total)
	n := 0
	for t, tourID := range cfg.TourIDs {
		weekCounts := Allocate(tourCounts[t], weekWeights(cfg.Weeks, seq), seq)
		for week, count := range weekCounts {
			for i := 0; i < count; i++ {
				intents = append(intents, Intent{
					Seq:          n,
					Kind:         KindMount,
					Project:      pool.draw(seq, cfg.SkipChance),
					TourID:       tourID,
					DurationDays: durations[n],
					TargetWeek:   week,
				})
				n++
			}
		}
	}
	return intents
}

// durationList expands the duration quota into one entry per intent and
// shuffles it so durations are not grouped by tour.
func durationList(total int, weights [3]float64, seq *Sequence) []int {
	counts := Allocate(total, weights[:], seq)
	out := make([]int, 0, total)
	for d, c := range counts {
		for i := 0; i < c; i++ {
			out = append(out, d+1)
		}
	}
	Shuffle(seq, out)
	return out
}

func scatterWeights(tours int, scatter float64, seq *Sequence) []float64 {
	if scatter <= 0 {
		scatter = 1
	}
	weights := make([]float64, tours)
	for i := range weights {
		weights[i] = math.Pow(seq.Next(), scatter) + 0.05
	}
	return weights
}

func weekWeights(weeks int, seq *Sequence) []float64 {
	weights := make([]float64, weeks)
	for i := range weights {
		weights[i] = 0.5 + seq.Next()
	}
	return weights
}

// projectPool draws projects round-robin from a shuffled, repeated list.
// Every project appears exactly appointmentsPerProject times, which is
// what keeps the at-most-one-mount-per-project invariant when the
// multiplier is 1.
type projectPool struct {
	items []ProjectContext
	next  int
}

func newProjectPool(projects []ProjectContext, perProject int, seq *Sequence) *projectPool {
	items := make([]ProjectContext, 0, len(projects)*perProject)
	for i := 0; i < perProject; i++ {
		round := make([]ProjectContext, len(projects))
		copy(round, projects)
		Shuffle(seq, round)
		items = append(items, round...)
	}
	return &projectPool{items: items}
}

func (p *projectPool) draw(seq *Sequence, skipChance float64) ProjectContext {
	// Occasionally push the current position to the back so the draw
	// order is not a strict rotation. The deferred project is still
	// drawn eventually; nothing leaves the pool.
	if seq.Chance(skipChance) && len(p.items)-p.next > 1 {
		i := p.next
		deferred := p.items[i]
		p.items = append(p.items[:i], p.items[i+1:]...)
		p.items = append(p.items, deferred)
	}
	ctx := p.items[p.next]
	p.next++
	return ctx
}
