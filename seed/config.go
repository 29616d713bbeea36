/*
config.go - Seed run configuration and result types

PURPOSE:
  Config is the full input of one seed run and is snapshotted verbatim
  onto the run row. Summary is the output snapshot written back when the
  run finishes. Both marshal to JSON so the run table doubles as an
  audit trail.

VALIDATION:
  Validation happens before the run row is written; a rejected config
  never leaves a trace in the database.
*/
package seed

import (
	"fmt"
	"time"
)

// Run states as stored on the seed_runs row.
const (
	StatusCreating = "CREATING"
	StatusCreated  = "CREATED"
	StatusFailed   = "FAILED"
)

// Config is the declarative input of one seed run.
type Config struct {
	Employees              int     `json:"employees"`
	Customers              int     `json:"customers"`
	Projects               int     `json:"projects"`
	AppointmentsPerProject int     `json:"appointmentsPerProject"`
	Attachments            bool    `json:"attachments"`
	RandomSeed             int64   `json:"randomSeed,omitempty"` // 0 = derive from run id
	WindowMinDays          int     `json:"seedWindowDaysMin"`
	WindowMaxDays          int     `json:"seedWindowDaysMax"`
	ReklDelayMinDays       int     `json:"reklDelayDaysMin"`
	ReklDelayMaxDays       int     `json:"reklDelayDaysMax"`
	ReklShare              float64 `json:"reklShare"`
	Locale                 string  `json:"locale"`
}

// DefaultConfig returns a config that seeds a small but complete dataset.
func DefaultConfig() Config {
	return Config{
		Employees:              12,
		Customers:              8,
		Projects:               8,
		AppointmentsPerProject: 1,
		Attachments:            false,
		WindowMinDays:          14,
		WindowMaxDays:          56,
		ReklDelayMinDays:       14,
		ReklDelayMaxDays:       42,
		ReklShare:              0.5,
		Locale:                 "de",
	}
}

// withDefaults fills zero-valued fields from DefaultConfig. Counts given
// explicitly (including explicit zeros for optional entities) survive.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Employees == 0 {
		c.Employees = d.Employees
	}
	if c.Customers == 0 {
		c.Customers = d.Customers
	}
	if c.Projects == 0 {
		c.Projects = d.Projects
	}
	if c.AppointmentsPerProject == 0 {
		c.AppointmentsPerProject = d.AppointmentsPerProject
	}
	if c.WindowMinDays == 0 && c.WindowMaxDays == 0 {
		c.WindowMinDays, c.WindowMaxDays = d.WindowMinDays, d.WindowMaxDays
	}
	if c.ReklDelayMinDays == 0 && c.ReklDelayMaxDays == 0 {
		c.ReklDelayMinDays, c.ReklDelayMaxDays = d.ReklDelayMinDays, d.ReklDelayMaxDays
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	return c
}

// Validate rejects configurations the seeder cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Employees < 1:
		return fmt.Errorf("invalid config: employees must be at least 1, got %d", c.Employees)
	case c.Customers < 1:
		return fmt.Errorf("invalid config: customers must be at least 1, got %d", c.Customers)
	case c.Projects < 1:
		return fmt.Errorf("invalid config: projects must be at least 1, got %d", c.Projects)
	case c.AppointmentsPerProject < 1:
		return fmt.Errorf("invalid config: appointmentsPerProject must be at least 1, got %d", c.AppointmentsPerProject)
	case c.WindowMinDays < 0 || c.WindowMaxDays <= c.WindowMinDays:
		return fmt.Errorf("invalid config: seeding window [%d, %d] is empty", c.WindowMinDays, c.WindowMaxDays)
	case c.ReklDelayMinDays < 1 || c.ReklDelayMaxDays < c.ReklDelayMinDays:
		return fmt.Errorf("invalid config: rekl delay range [%d, %d] is empty", c.ReklDelayMinDays, c.ReklDelayMaxDays)
	case c.ReklShare < 0 || c.ReklShare > 1:
		return fmt.Errorf("invalid config: reklShare must be within [0, 1], got %g", c.ReklShare)
	}
	return nil
}

// Counts is the created-entity tally of one run.
type Counts struct {
	Teams             int `json:"teams"`
	Tours             int `json:"tours"`
	Employees         int `json:"employees"`
	Customers         int `json:"customers"`
	Projects          int `json:"projects"`
	ProjectStatus     int `json:"projectStatus"`
	MountAppointments int `json:"mountAppointments"`
	ReklAppointments  int `json:"reklAppointments"`
	Attachments       int `json:"attachments"`
}

// Reductions counts planned-but-unplaced intents. They are soft
// failures, not errors.
type Reductions struct {
	// Appointments counts mount intents with no feasible date/crew.
	Appointments int `json:"appointments"`
	// ReklMissingAccessory counts mounts skipped by the deriver because
	// their project has no accessory.
	ReklMissingAccessory int `json:"reklMissingAccessory"`
	// ReklConstraints counts derived rekl intents with no feasible
	// date/crew.
	ReklConstraints int `json:"reklConstraints"`
}

// Summary is the output snapshot of a finished run.
type Summary struct {
	Created    Counts     `json:"created"`
	Reductions Reductions `json:"reductions"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Result is what CreateSeedRun returns to its caller.
type Result struct {
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
	Config    Config    `json:"config"`
	Summary   Summary   `json:"summary"`
}
