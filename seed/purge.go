/*
purge.go - Compensating purge of one seed run

PURPOSE:
  Deletes everything a run created, discovered solely through the
  provenance ledger. Purge serves two callers: the public "undo this
  run" operation, and the orchestrator's automatic compensation after a
  mid-run failure.

ORDER:
  Filesystem artifacts go first (an attachment file cannot join a DB
  transaction, so it must not outlive its row), then relational rows in
  an order that respects the foreign-key graph: link rows, appointments,
  attachments, projects, customers, employees, teams, tours. The ledger
  rows and the run row itself go last; until then the ledger remains the
  source of truth for a retry.

IDEMPOTENCE:
  An unknown or already-purged run id is a successful no-op, never an
  error. A file that is already gone is tolerated with success; every
  other filesystem or SQL error aborts the purge and propagates.
*/
package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/store/sqlite"
)

// Entity types as recorded in the provenance ledger.
const (
	entityTeam          = "team"
	entityTour          = "tour"
	entityEmployee      = "employee"
	entityCustomer      = "customer"
	entityProject       = "project"
	entityProjectStatus = "project_status"
	entityAppointment   = "appointment"
	entityAttachment    = "attachment"
)

// PurgeResult reports what one purge removed.
type PurgeResult struct {
	RunID    string           `json:"runId"`
	NoOp     bool             `json:"noOp"`
	Deleted  map[string]int64 `json:"deleted"`
	Files    int              `json:"files"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Purger removes seed runs and everything they created.
type Purger struct {
	store *sqlite.Store
	log   *zap.Logger
}

// NewPurger creates a purge engine over the store.
func NewPurger(store *sqlite.Store, log *zap.Logger) *Purger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Purger{store: store, log: log}
}

// Purge removes the run and all rows/files in its provenance ledger.
func (p *Purger) Purge(ctx context.Context, runID string) (*PurgeResult, error) {
	result := &PurgeResult{RunID: runID, Deleted: make(map[string]int64)}

	if _, err := p.store.GetSeedRun(ctx, runID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			result.NoOp = true
			return result, nil
		}
		return nil, fmt.Errorf("failed to look up seed run: %w", err)
	}

	ledger, err := p.store.ProvenanceForRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read provenance ledger: %w", err)
	}
	byType := make(map[string][]string)
	for _, e := range ledger {
		byType[e.EntityType] = append(byType[e.EntityType], e.EntityID)
	}

	if err := p.removeFiles(ctx, byType[entityAttachment], result); err != nil {
		return nil, err
	}

	// Link rows before their parents, then the FK chain bottom-up.
	for _, id := range byType[entityAppointment] {
		if _, err := p.store.DeleteAppointmentEmployees(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete appointment links: %w", err)
		}
	}
	steps := []struct {
		entityType string
		delete     func(context.Context, string) (int64, error)
	}{
		{entityProjectStatus, p.store.DeleteProjectStatus},
		{entityAppointment, p.store.DeleteAppointment},
		{entityAttachment, p.store.DeleteAttachment},
		{entityProject, p.store.DeleteProject},
		{entityCustomer, p.store.DeleteCustomer},
		{entityEmployee, p.store.DeleteEmployee},
		{entityTeam, p.store.DeleteTeam},
		{entityTour, p.store.DeleteTour},
	}
	for _, step := range steps {
		for _, id := range byType[step.entityType] {
			n, err := step.delete(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to delete %s %s: %w", step.entityType, id, err)
			}
			result.Deleted[step.entityType] += n
		}
	}

	if _, err := p.store.DeleteProvenanceForRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("failed to delete provenance ledger: %w", err)
	}
	if _, err := p.store.DeleteSeedRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("failed to delete seed run: %w", err)
	}

	p.log.Info("seed run purged",
		zap.String("run_id", runID),
		zap.Int("ledger_entries", len(ledger)),
		zap.Int("files_removed", result.Files))
	return result, nil
}

// removeFiles deletes the attachment files before any row disappears.
// Missing metadata and already-gone files degrade to warnings.
func (p *Purger) removeFiles(ctx context.Context, attachmentIDs []string, result *PurgeResult) error {
	for _, id := range attachmentIDs {
		att, err := p.store.GetAttachment(ctx, id)
		if errors.Is(err, sqlite.ErrNotFound) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("attachment %s in ledger but metadata missing", id))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to resolve attachment %s: %w", id, err)
		}

		switch err := os.Remove(att.StoragePath); {
		case err == nil:
			result.Files++
		case errors.Is(err, fs.ErrNotExist):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("attachment file already absent: %s", att.StoragePath))
		default:
			return fmt.Errorf("failed to remove attachment file %s: %w", att.StoragePath, err)
		}
	}
	return nil
}
