/*
types.go - Planning-time value objects

These types live only for the duration of one seed run. An Intent either
materializes into a persisted appointment or is dropped and counted as a
reduction; nothing here is written to the store directly.
*/
package plan

import "time"

// Kind distinguishes the two appointment classes a run produces.
type Kind string

const (
	// KindMount is the primary installation appointment seeded per project.
	KindMount Kind = "mount"
	// KindRekl is the delayed follow-up appointment derived from a mount.
	KindRekl Kind = "rekl"
)

// ProjectContext carries the catalog selection made once per seeded
// project. Immutable for the lifetime of the run.
type ProjectContext struct {
	ProjectID   string
	ProjectName string

	// Ordinal is the project's position in creation order. Unlike the
	// persisted id it is stable across runs with the same seed, which is
	// what hash-based selection needs to stay reproducible.
	Ordinal int

	CustomerID    string
	CustomerName  string
	CustomerCity  string
	ModelID       string
	ModelName     string
	AccessoryID   string // empty when the project has no accessory
	AccessoryName string
}

// HasAccessory reports whether an accessory was selected for the project.
func (c ProjectContext) HasAccessory() bool {
	return c.AccessoryID != ""
}

// Intent is one planned appointment that has not been persisted yet.
type Intent struct {
	Seq          int
	Kind         Kind
	Project      ProjectContext
	TourID       string
	DurationDays int

	// Mount intents: index of the target week bucket inside the window.
	TargetWeek int

	// Rekl intents: delay relative to BaseDate, the mount's start date.
	DelayDays int
	BaseDate  time.Time
}

// Placement is a successfully materialized appointment. It feeds the rekl
// deriver and mirrors what was written to the store.
type Placement struct {
	AppointmentID string
	Kind          Kind
	Project       ProjectContext
	TourID        string
	StartDate     time.Time
	DurationDays  int
	EmployeeIDs   []string
}

// Employee is the slice of the persisted employee row the planner needs:
// identity plus home tour.
type Employee struct {
	ID     string
	TourID string
}
