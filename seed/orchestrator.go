/*
orchestrator.go - The seed-run state machine

PURPOSE:
  Drives one run end to end: NOT_STARTED -> CREATING -> CREATED|FAILED.
  CREATING begins when the run row is persisted; from that point every
  error is compensated by an automatic purge of the partial run before
  the original error is re-surfaced. The run row is the point of no
  return, not the first master-data row.

SEQUENCE OF WORK WHILE CREATING:
  1. teams + tours (fixed small counts)
  2. employees + customers (configured counts, synthetic attributes)
  3. projects (catalog model + optional accessory + 1-2 status tags)
  4. planner -> materializer (mounts)
  5. rekl deriver -> materializer (follow-ups)
  6. optional attachment files for a fraction of projects
  7. summary written onto the run row (version-checked)

  Provenance is appended per created row, never batched, so a crash
  between steps still leaves a ledger the purge engine can act on.
*/
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/catalog"
	"github.com/warp/dispatch-engine/plan"
	"github.com/warp/dispatch-engine/store/sqlite"
)

// Fixed master-data shape per run. Two teams of two tours each matches
// a small regional dispatch operation.
const (
	teamCount        = 2
	toursPerTeam     = 2
	accessoryChance  = 0.7
	attachmentChance = 0.35
)

// Planner tuning. Duration weights favor short appointments; scatter
// concentrates load on some tours; the skip chance breaks up strict
// round-robin project order.
var (
	durationWeights = [3]float64{0.5, 0.3, 0.2}
	plannerScatter  = 2.0
	plannerSkip     = 0.1
)

var projectStatusPool = []string{"ORDERED", "CONFIRMED", "SCHEDULED", "IN_PROGRESS"}

// Seeder creates reversible synthetic datasets.
type Seeder struct {
	store     *sqlite.Store
	catalog   *catalog.Catalog
	templates TemplateSource
	purger    *Purger
	log       *zap.Logger

	// attachmentDir receives the generated files, one subdirectory per run.
	attachmentDir string

	// anchor returns the run's anchor date; swapped in tests.
	anchor func() time.Time
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithTemplates replaces the static template source.
func WithTemplates(t TemplateSource) Option {
	return func(s *Seeder) { s.templates = t }
}

// WithAttachmentDir sets where attachment files are written.
func WithAttachmentDir(dir string) Option {
	return func(s *Seeder) { s.attachmentDir = dir }
}

// WithAnchor fixes the run anchor date.
func WithAnchor(anchor time.Time) Option {
	return func(s *Seeder) { s.anchor = func() time.Time { return anchor } }
}

// NewSeeder wires a seeder over the store and catalog.
func NewSeeder(store *sqlite.Store, cat *catalog.Catalog, log *zap.Logger, opts ...Option) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Seeder{
		store:         store,
		catalog:       cat,
		templates:     StaticTemplates{},
		purger:        NewPurger(store, log),
		log:           log,
		attachmentDir: filepath.Join("data", "attachments"),
		anchor:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one seed run. Configuration errors surface before any
// write; failures after the run row exists are compensated by purge and
// then returned unchanged.
func (s *Seeder) Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s.catalog == nil || len(s.catalog.Models) == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	runID := uuid.NewString()
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = plan.SeedFromRunID(runID)
	}
	seq := plan.NewSequence(seed)

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot config: %w", err)
	}
	createdAt := s.anchor()
	run := sqlite.SeedRun{ID: runID, Status: StatusCreating, ConfigJSON: string(configJSON)}
	if err := s.store.CreateSeedRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create seed run: %w", err)
	}
	s.log.Info("seed run started",
		zap.String("run_id", runID),
		zap.Int64("seed", seed),
		zap.Int("projects", cfg.Projects))

	summary, err := s.create(ctx, runID, strconv.FormatInt(seed, 10), cfg, createdAt, seq)
	if err != nil {
		return nil, s.compensate(ctx, runID, err)
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, s.compensate(ctx, runID, err)
	}
	if err := s.store.UpdateSeedRun(ctx, runID, StatusCreated, string(summaryJSON), 1); err != nil {
		return nil, s.compensate(ctx, runID, err)
	}

	s.log.Info("seed run created",
		zap.String("run_id", runID),
		zap.Int("mounts", summary.Created.MountAppointments),
		zap.Int("rekls", summary.Created.ReklAppointments),
		zap.Int("reductions", summary.Reductions.Appointments+summary.Reductions.ReklConstraints))
	return &Result{RunID: runID, CreatedAt: createdAt, Config: cfg, Summary: *summary}, nil
}

// compensate purges the partial run and returns the original error. A
// purge failure is attached, never allowed to mask the cause.
func (s *Seeder) compensate(ctx context.Context, runID string, cause error) error {
	s.log.Error("seed run failed, compensating", zap.String("run_id", runID), zap.Error(cause))

	// Mark FAILED first so a purge crash leaves an honest status behind.
	if err := s.store.UpdateSeedRun(ctx, runID, StatusFailed, "", 1); err != nil {
		s.log.Warn("failed to mark run as failed", zap.String("run_id", runID), zap.Error(err))
	}
	if _, err := s.purger.Purge(ctx, runID); err != nil {
		return fmt.Errorf("%w (compensating purge also failed: %v)", cause, err)
	}
	return cause
}

func (s *Seeder) create(ctx context.Context, runID, seedKey string, cfg Config, anchor time.Time, seq *plan.Sequence) (*Summary, error) {
	summary := &Summary{}
	pool := poolFor(cfg.Locale)

	tourIDs, teamByTour, err := s.createTeamsAndTours(ctx, runID, summary)
	if err != nil {
		return nil, err
	}
	employees, err := s.createEmployees(ctx, runID, cfg, pool, tourIDs, teamByTour, seq, summary)
	if err != nil {
		return nil, err
	}
	customers, err := s.createCustomers(ctx, runID, cfg, pool, seq, summary)
	if err != nil {
		return nil, err
	}
	projects, err := s.createProjects(ctx, runID, cfg, customers, seq, summary)
	if err != nil {
		return nil, err
	}

	window := plan.Window{Anchor: anchor, MinDays: cfg.WindowMinDays, MaxDays: cfg.WindowMaxDays}
	m := &materializer{
		store:     s.store,
		log:       s.log,
		templates: s.templates,
		runID:     runID,
		locale:    cfg.Locale,
		window:    window,
		delayMin:  cfg.ReklDelayMinDays,
		delayMax:  cfg.ReklDelayMaxDays,
		pool:      employees,
		avail:     plan.NewAvailability(),
		seq:       seq,
	}

	mountIntents := plan.PlanMounts(plan.PlannerConfig{
		Projects:               projects,
		TourIDs:                tourIDs,
		AppointmentsPerProject: cfg.AppointmentsPerProject,
		Weeks:                  window.Weeks(),
		DurationWeights:        durationWeights,
		Scatter:                plannerScatter,
		SkipChance:             plannerSkip,
	}, seq)
	mounts, dropped, err := m.place(ctx, mountIntents)
	if err != nil {
		return nil, err
	}
	summary.Created.MountAppointments = len(mounts)
	summary.Reductions.Appointments = dropped
	if dropped > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d mount intents could not be placed", dropped))
	}

	reklIntents, missingAccessory := deriveRekls(seedKey, mounts,
		cfg.ReklShare, cfg.ReklDelayMinDays, cfg.ReklDelayMaxDays, seq)
	summary.Reductions.ReklMissingAccessory = missingAccessory
	rekls, droppedRekls, err := m.place(ctx, reklIntents)
	if err != nil {
		return nil, err
	}
	summary.Created.ReklAppointments = len(rekls)
	summary.Reductions.ReklConstraints = droppedRekls
	if droppedRekls > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d rekl intents could not be placed", droppedRekls))
	}

	if cfg.Attachments {
		if err := s.createAttachments(ctx, runID, projects, seq, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *Seeder) createTeamsAndTours(ctx context.Context, runID string, summary *Summary) ([]string, map[string]string, error) {
	var tourIDs []string
	teamByTour := make(map[string]string)
	for t := 0; t < teamCount; t++ {
		team := sqlite.Team{ID: uuid.NewString(), Name: fmt.Sprintf("Team %c", 'A'+t)}
		if err := s.createTracked(ctx, runID, entityTeam, team.ID, func() error {
			return s.store.CreateTeam(ctx, team)
		}); err != nil {
			return nil, nil, err
		}
		summary.Created.Teams++

		for n := 0; n < toursPerTeam; n++ {
			tour := sqlite.Tour{
				ID:     uuid.NewString(),
				Name:   fmt.Sprintf("Tour %c%d", 'A'+t, n+1),
				TeamID: team.ID,
			}
			if err := s.createTracked(ctx, runID, entityTour, tour.ID, func() error {
				return s.store.CreateTour(ctx, tour)
			}); err != nil {
				return nil, nil, err
			}
			tourIDs = append(tourIDs, tour.ID)
			teamByTour[tour.ID] = team.ID
			summary.Created.Tours++
		}
	}
	return tourIDs, teamByTour, nil
}

func (s *Seeder) createEmployees(ctx context.Context, runID string, cfg Config, pool namePool, tourIDs []string, teamByTour map[string]string, seq *plan.Sequence, summary *Summary) ([]plan.Employee, error) {
	// Round-robin over tours keeps every tour staffed; the team follows
	// from the home tour.
	employees := make([]plan.Employee, 0, cfg.Employees)
	for i := 0; i < cfg.Employees; i++ {
		first, last, email := person(pool, seq)
		tourID := tourIDs[i%len(tourIDs)]

		emp := sqlite.Employee{
			ID:        uuid.NewString(),
			FirstName: first,
			LastName:  last,
			Email:     email,
			TeamID:    teamByTour[tourID],
			TourID:    tourID,
		}
		if err := s.createTracked(ctx, runID, entityEmployee, emp.ID, func() error {
			return s.store.CreateEmployee(ctx, emp)
		}); err != nil {
			return nil, err
		}
		employees = append(employees, plan.Employee{ID: emp.ID, TourID: tourID})
		summary.Created.Employees++
	}
	return employees, nil
}

func (s *Seeder) createCustomers(ctx context.Context, runID string, cfg Config, pool namePool, seq *plan.Sequence, summary *Summary) ([]sqlite.Customer, error) {
	customers := make([]sqlite.Customer, 0, cfg.Customers)
	for i := 0; i < cfg.Customers; i++ {
		name, street, city := company(pool, seq)
		c := sqlite.Customer{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("%s %d", name, i+1), // suffix keeps names unique per run
			Street: street,
			City:   city,
		}
		if err := s.createTracked(ctx, runID, entityCustomer, c.ID, func() error {
			return s.store.CreateCustomer(ctx, c)
		}); err != nil {
			return nil, err
		}
		customers = append(customers, c)
		summary.Created.Customers++
	}
	return customers, nil
}

func (s *Seeder) createProjects(ctx context.Context, runID string, cfg Config, customers []sqlite.Customer, seq *plan.Sequence, summary *Summary) ([]plan.ProjectContext, error) {
	projects := make([]plan.ProjectContext, 0, cfg.Projects)
	for i := 0; i < cfg.Projects; i++ {
		customer := plan.Pick(seq, customers)
		model := plan.Pick(seq, s.catalog.Models)

		var accessory catalog.Accessory
		if options := s.catalog.AccessoriesFor(model.ID); len(options) > 0 && seq.Chance(accessoryChance) {
			accessory = plan.Pick(seq, options)
		}

		// Order values land between 4,000 and 30,000 with cents.
		orderValue := decimal.NewFromFloat(4000 + seq.Next()*26000).Round(2)

		p := sqlite.Project{
			ID:            uuid.NewString(),
			Name:          fmt.Sprintf("%s – %s", model.Name, customer.Name),
			CustomerID:    customer.ID,
			ModelID:       model.ID,
			ModelName:     model.Name,
			AccessoryID:   accessory.ID,
			AccessoryName: accessory.Name,
			OrderValue:    orderValue.String(),
		}
		if err := s.createTracked(ctx, runID, entityProject, p.ID, func() error {
			return s.store.CreateProject(ctx, p)
		}); err != nil {
			return nil, err
		}
		summary.Created.Projects++

		for _, status := range statusTags(seq) {
			ps := sqlite.ProjectStatus{ID: uuid.NewString(), ProjectID: p.ID, Status: status}
			if err := s.createTracked(ctx, runID, entityProjectStatus, ps.ID, func() error {
				return s.store.CreateProjectStatus(ctx, ps)
			}); err != nil {
				return nil, err
			}
			summary.Created.ProjectStatus++
		}

		projects = append(projects, plan.ProjectContext{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			Ordinal:       i,
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerCity:  customer.City,
			ModelID:       model.ID,
			ModelName:     model.Name,
			AccessoryID:   accessory.ID,
			AccessoryName: accessory.Name,
		})
	}
	return projects, nil
}

// statusTags returns 1-2 status tags in pipeline order.
func statusTags(seq *plan.Sequence) []string {
	n := seq.IntBetween(1, 2)
	start := seq.IntBetween(0, len(projectStatusPool)-n)
	return projectStatusPool[start : start+n]
}

// createAttachments writes 1-2 small synthetic PDFs for a fraction of
// projects, under <attachmentDir>/<runID>/.
func (s *Seeder) createAttachments(ctx context.Context, runID string, projects []plan.ProjectContext, seq *plan.Sequence, summary *Summary) error {
	dir := filepath.Join(s.attachmentDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create attachment directory: %w", err)
	}

	for _, p := range projects {
		if !seq.Chance(attachmentChance) {
			continue
		}
		for n := seq.IntBetween(1, 2); n > 0; n-- {
			id := uuid.NewString()
			fileName := fmt.Sprintf("measurement-%s-%d.pdf", p.ProjectID[:8], n)
			path := filepath.Join(dir, id+".pdf")

			content := fmt.Sprintf("synthetic measurement sheet\nproject: %s\nmodel: %s\n",
				p.ProjectName, p.ModelName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write attachment file: %w", err)
			}

			att := sqlite.Attachment{
				ID:          id,
				ProjectID:   p.ProjectID,
				FileName:    fileName,
				StoragePath: path,
				SizeBytes:   int64(len(content)),
			}
			if err := s.createTracked(ctx, runID, entityAttachment, att.ID, func() error {
				return s.store.CreateAttachment(ctx, att)
			}); err != nil {
				// The file exists but its row does not; remove it so the
				// ledger stays the single source of truth.
				os.Remove(path)
				return err
			}
			summary.Created.Attachments++
		}
	}
	return nil
}

// createTracked runs one create and appends its provenance entry.
// Appending immediately (not batched) is what keeps the ledger usable
// after a mid-run crash.
func (s *Seeder) createTracked(ctx context.Context, runID, entityType, entityID string, create func() error) error {
	if err := create(); err != nil {
		return fmt.Errorf("failed to create %s: %w", entityType, err)
	}
	if err := s.store.AppendProvenance(ctx, sqlite.ProvenanceEntry{
		RunID: runID, EntityType: entityType, EntityID: entityID,
	}); err != nil {
		return err
	}
	return nil
}
