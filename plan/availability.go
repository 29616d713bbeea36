// availability.go - Per-employee occupied-day tracking for one seed run.
//
// The map is scoped to a single run and discarded afterwards. Only the
// materializer mutates it, and only after an appointment has actually
// been persisted.
package plan

// Availability maps employee id to the set of ISO day keys already
// occupied by appointments placed earlier in the same run.
type Availability map[string]map[string]struct{}

// NewAvailability returns an empty availability map.
func NewAvailability() Availability {
	return make(Availability)
}

// Free reports whether the employee has no collision on any of the days.
func (a Availability) Free(employeeID string, dayKeys []string) bool {
	occupied, ok := a[employeeID]
	if !ok {
		return true
	}
	for _, k := range dayKeys {
		if _, busy := occupied[k]; busy {
			return false
		}
	}
	return true
}

// Occupy marks the days as taken for the employee.
func (a Availability) Occupy(employeeID string, dayKeys []string) {
	occupied, ok := a[employeeID]
	if !ok {
		occupied = make(map[string]struct{})
		a[employeeID] = occupied
	}
	for _, k := range dayKeys {
		occupied[k] = struct{}{}
	}
}
