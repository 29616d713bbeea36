/*
materialize.go - Turning appointment intents into persisted rows

PURPOSE:
  Walks the intents in planning order. For each one it asks the
  candidate-date search for feasible start dates and the assignment
  function for a crew; the first date with a non-empty crew wins and is
  persisted (appointment row + employee links in one local transaction),
  the crew's days are marked occupied, and the provenance ledger grows by
  one entry. Intents that exhaust every candidate become reductions.

FAILURE POLICY:
  Infeasible intents are soft failures (counted, not raised). Store
  errors are hard failures and abort the run so the orchestrator can
  compensate.
*/
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/plan"
	"github.com/warp/dispatch-engine/store/sqlite"
)

// materializer holds the per-run state the placement loop needs. One
// instance serves both the mount and the rekl batch, so the availability
// map carries over between the two.
type materializer struct {
	store     *sqlite.Store
	log       *zap.Logger
	templates TemplateSource

	runID    string
	locale   string
	window   plan.Window
	delayMin int
	delayMax int

	pool  []plan.Employee
	avail plan.Availability
	seq   *plan.Sequence
}

// place materializes the batch and returns the placements plus the
// number of intents dropped as reductions.
func (m *materializer) place(ctx context.Context, intents []plan.Intent) ([]plan.Placement, int, error) {
	var placements []plan.Placement
	reductions := 0

	for _, intent := range intents {
		candidates := m.candidates(intent)

		placed := false
		for _, start := range candidates {
			dayKeys := plan.SpanDayKeys(start, intent.DurationDays)
			crew := plan.AssignEmployees(m.pool, intent.TourID, dayKeys, m.avail, m.seq)
			if crew == nil {
				continue
			}

			p, err := m.persist(ctx, intent, start, crew)
			if err != nil {
				return placements, reductions, err
			}
			for _, empID := range crew {
				m.avail.Occupy(empID, dayKeys)
			}
			placements = append(placements, p)
			placed = true
			break
		}

		if !placed {
			reductions++
			m.log.Debug("intent not placeable",
				zap.String("run_id", m.runID),
				zap.String("kind", string(intent.Kind)),
				zap.String("project_id", intent.Project.ProjectID),
				zap.Int("candidates", len(candidates)))
		}
	}
	return placements, reductions, nil
}

func (m *materializer) candidates(intent plan.Intent) []time.Time {
	if intent.Kind == plan.KindRekl {
		return plan.ReklCandidates(m.window, intent.BaseDate, intent.DelayDays, m.delayMin, m.delayMax)
	}
	return plan.MountCandidates(m.window, intent.TargetWeek, intent.DurationDays, m.seq)
}

func (m *materializer) persist(ctx context.Context, intent plan.Intent, start time.Time, crew []string) (plan.Placement, error) {
	title, description := m.renderText(intent)
	appt := sqlite.Appointment{
		ID:           uuid.NewString(),
		ProjectID:    intent.Project.ProjectID,
		TourID:       intent.TourID,
		Kind:         string(intent.Kind),
		Title:        title,
		Description:  description,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, intent.DurationDays-1),
		DurationDays: intent.DurationDays,
		EmployeeIDs:  crew,
	}
	if err := m.store.CreateAppointment(ctx, appt); err != nil {
		return plan.Placement{}, fmt.Errorf("failed to persist %s appointment: %w", intent.Kind, err)
	}
	if err := m.store.AppendProvenance(ctx, sqlite.ProvenanceEntry{
		RunID: m.runID, EntityType: entityAppointment, EntityID: appt.ID,
	}); err != nil {
		return plan.Placement{}, err
	}

	return plan.Placement{
		AppointmentID: appt.ID,
		Kind:          intent.Kind,
		Project:       intent.Project,
		TourID:        intent.TourID,
		StartDate:     start,
		DurationDays:  intent.DurationDays,
		EmployeeIDs:   crew,
	}, nil
}

func (m *materializer) renderText(intent plan.Intent) (title, description string) {
	values := map[string]string{
		"customer":  intent.Project.CustomerName,
		"model":     intent.Project.ModelName,
		"accessory": intent.Project.AccessoryName,
		"project":   intent.Project.ProjectName,
		"city":      intent.Project.CustomerCity,
	}
	if intent.Kind == plan.KindRekl {
		return Render(m.templates.ReklTitle(m.locale), values),
			Render(m.templates.ReklDescription(m.locale), values)
	}
	return Render(m.templates.MountTitle(m.locale), values),
		Render(m.templates.MountDescription(m.locale), values)
}
