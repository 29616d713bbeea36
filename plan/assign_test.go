package plan

import "testing"

func testPool() []Employee {
	return []Employee{
		{ID: "emp-1", TourID: "tour-1"},
		{ID: "emp-2", TourID: "tour-1"},
		{ID: "emp-3", TourID: "tour-2"},
		{ID: "emp-4", TourID: "tour-2"},
		{ID: "emp-5", TourID: "tour-3"},
	}
}

func TestAssignEmployees_PrefersHomeTour(t *testing.T) {
	// GIVEN: everyone free
	avail := NewAvailability()
	days := []string{"2026-03-16"}

	// Repeated draws should always lead with a tour-1 employee while
	// both are free.
	seq := NewSequence(11)
	for i := 0; i < 20; i++ {
		crew := AssignEmployees(testPool(), "tour-1", days, avail, seq)
		if len(crew) == 0 {
			t.Fatal("expected a crew")
		}
		if crew[0] != "emp-1" && crew[0] != "emp-2" {
			t.Fatalf("draw %d leads with off-tour employee %s", i, crew[0])
		}
	}
}

func TestAssignEmployees_FiltersOccupied(t *testing.T) {
	// GIVEN: only emp-5 is free on the span
	avail := NewAvailability()
	days := []string{"2026-03-16", "2026-03-17"}
	for _, id := range []string{"emp-1", "emp-2", "emp-3", "emp-4"} {
		avail.Occupy(id, days)
	}

	crew := AssignEmployees(testPool(), "tour-1", days, avail, NewSequence(1))
	if len(crew) != 1 || crew[0] != "emp-5" {
		t.Fatalf("expected [emp-5], got %v", crew)
	}
}

func TestAssignEmployees_NoOneFree(t *testing.T) {
	avail := NewAvailability()
	days := []string{"2026-03-16"}
	for _, e := range testPool() {
		avail.Occupy(e.ID, days)
	}

	if crew := AssignEmployees(testPool(), "tour-1", days, avail, NewSequence(1)); crew != nil {
		t.Fatalf("expected nil, got %v", crew)
	}
}

func TestAssignEmployees_PartialDayCollisionBlocks(t *testing.T) {
	// An employee busy on any single day of the span is out entirely.
	avail := NewAvailability()
	avail.Occupy("emp-1", []string{"2026-03-17"})
	days := []string{"2026-03-16", "2026-03-17", "2026-03-18"}

	pool := []Employee{{ID: "emp-1", TourID: "tour-1"}}
	if crew := AssignEmployees(pool, "tour-1", days, avail, NewSequence(1)); crew != nil {
		t.Fatalf("expected nil, got %v", crew)
	}
}

func TestAssignEmployees_CrewSizeBounded(t *testing.T) {
	avail := NewAvailability()
	days := []string{"2026-03-16"}
	seq := NewSequence(3)

	for i := 0; i < 50; i++ {
		crew := AssignEmployees(testPool(), "tour-2", days, avail, seq)
		if len(crew) < CrewMin || len(crew) > CrewMax {
			t.Fatalf("crew size %d outside [%d, %d]", len(crew), CrewMin, CrewMax)
		}
	}
}

func TestAssignEmployees_DoesNotMutateAvailability(t *testing.T) {
	avail := NewAvailability()
	days := []string{"2026-03-16"}
	AssignEmployees(testPool(), "tour-1", days, avail, NewSequence(1))

	for _, e := range testPool() {
		if !avail.Free(e.ID, days) {
			t.Fatalf("assignment marked %s busy", e.ID)
		}
	}
}
