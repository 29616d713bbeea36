/*
assign.go - Availability-aware employee assignment

PURPOSE:
  Given a tour, a concrete date span and the employee pool, propose the
  crew for one appointment. Employees whose home tour matches are
  preferred; both sub-groups are shuffled so assignments do not follow
  the employee creation order.

CONTRACT:
  The function never mutates the availability map. Marking days occupied
  is the materializer's job, after the appointment row exists.
*/
package plan

// CrewMin and CrewMax bound how many employees one appointment gets
// (CrewMax is additionally bounded by the available pool).
const (
	CrewMin = 1
	CrewMax = 3
)

// AssignEmployees returns the employee ids for one appointment, or nil
// when no employee is free across the whole span.
func AssignEmployees(pool []Employee, tourID string, dayKeys []string, avail Availability, seq *Sequence) []string {
	var onTour, others []Employee
	for _, e := range pool {
		if e.TourID == tourID {
			onTour = append(onTour, e)
		} else {
			others = append(others, e)
		}
	}
	Shuffle(seq, onTour)
	Shuffle(seq, others)

	var free []string
	for _, e := range append(onTour, others...) {
		if avail.Free(e.ID, dayKeys) {
			free = append(free, e.ID)
		}
	}
	if len(free) == 0 {
		return nil
	}

	max := CrewMax
	if len(free) < max {
		max = len(free)
	}
	crew := seq.IntBetween(CrewMin, max)
	return free[:crew]
}
