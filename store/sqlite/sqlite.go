/*
Package sqlite provides the SQLite-backed store for the dispatch engine.

PURPOSE:
  Implements persistence for seed runs, the provenance ledger, and the
  domain entities the seeder creates (teams, tours, employees, customers,
  projects, appointments, attachments). In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  seed_runs:             One row per seeder invocation (config + summary snapshots)
  seed_provenance:       Append-only ledger of every row a run created
  teams, tours:          Master data
  employees, customers:  Master data
  projects:              Seeded projects with their catalog selection
  project_status:        1..n status tags per project
  appointments:          Mount and rekl appointments (versioned rows)
  appointment_employees: Crew links
  attachments:           File metadata; the bytes live on disk

TRANSACTION SCOPE:
  Each operation is its own local transaction. A seed run is deliberately
  NOT one multi-statement transaction - partial progress must stay
  observable so the provenance ledger can drive a compensating purge.

CONCURRENCY:
  sync.RWMutex around the connection, WAL journal mode. Same trade-offs
  as any single-writer SQLite deployment.

USAGE:
  store, err := sqlite.New("./data/dispatch.db")
  if err != nil { ... }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned by version-checked updates when the row
// was modified since it was read.
var ErrVersionConflict = errors.New("version conflict")

// DateFormat is how appointment dates are stored (day precision).
const DateFormat = "2006-01-02"

// Store implements persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store backed by the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seed_runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		config_json TEXT NOT NULL,
		summary_json TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Append-only: the sole mechanism by which purge discovers what a
	-- run created. Never updated; deleted as a block during purge.
	CREATE TABLE IF NOT EXISTS seed_provenance (
		run_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_provenance_run ON seed_provenance(run_id);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tours (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		team_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		team_id TEXT NOT NULL,
		tour_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_tour ON employees(tour_id);

	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		street TEXT,
		city TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		model_id TEXT NOT NULL,
		model_name TEXT NOT NULL,
		accessory_id TEXT,
		accessory_name TEXT,
		order_value TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_customer ON projects(customer_id);

	CREATE TABLE IF NOT EXISTS project_status (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_project_status_project ON project_status(project_id);

	CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		tour_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_appointments_project ON appointments(project_id);
	CREATE INDEX IF NOT EXISTS idx_appointments_start ON appointments(start_date);

	CREATE TABLE IF NOT EXISTS appointment_employees (
		appointment_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		PRIMARY KEY (appointment_id, employee_id)
	);
	CREATE INDEX IF NOT EXISTS idx_appt_employees_employee
		ON appointment_employees(employee_id);

	CREATE TABLE IF NOT EXISTS attachments (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attachments_project ON attachments(project_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// SEED RUNS
// =============================================================================

// SeedRun is one seeder invocation.
type SeedRun struct {
	ID          string
	Status      string
	ConfigJSON  string
	SummaryJSON string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateSeedRun persists a new run row.
func (s *Store) CreateSeedRun(ctx context.Context, run SeedRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_runs (id, status, config_json, summary_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		run.ID, run.Status, run.ConfigJSON, nullString(run.SummaryJSON), now(), now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create seed run: %w", err)
	}
	return nil
}

// GetSeedRun returns a run or ErrNotFound.
func (s *Store) GetSeedRun(ctx context.Context, id string) (*SeedRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, config_json, COALESCE(summary_json, ''), version, created_at, updated_at
		FROM seed_runs WHERE id = ?`, id)
	return scanSeedRun(row)
}

// ListSeedRuns returns all runs, newest first.
func (s *Store) ListSeedRuns(ctx context.Context) ([]SeedRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, config_json, COALESCE(summary_json, ''), version, created_at, updated_at
		FROM seed_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SeedRun
	for rows.Next() {
		var r SeedRun
		var createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Status, &r.ConfigJSON, &r.SummaryJSON, &r.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UpdateSeedRun writes summary and status with optimistic locking. The
// update only applies when the stored version equals expectedVersion;
// otherwise ErrVersionConflict is returned.
func (s *Store) UpdateSeedRun(ctx context.Context, id, status, summaryJSON string, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE seed_runs
		SET status = ?, summary_json = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		status, nullString(summaryJSON), now(), id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update seed run: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Row missing or stale version; disambiguate for the caller.
		var exists int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seed_runs WHERE id = ?", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// DeleteSeedRun removes the run row.
func (s *Store) DeleteSeedRun(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "seed_runs", id)
}

func scanSeedRun(row *sql.Row) (*SeedRun, error) {
	var r SeedRun
	var createdAt, updatedAt string
	err := row.Scan(&r.ID, &r.Status, &r.ConfigJSON, &r.SummaryJSON, &r.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// =============================================================================
// PROVENANCE LEDGER
// =============================================================================

// ProvenanceEntry records that a run created one domain row.
type ProvenanceEntry struct {
	RunID      string
	EntityType string
	EntityID   string
}

// AppendProvenance writes one ledger entry. Entries are written as rows
// are created, never batched, so a mid-run crash leaves a usable ledger.
func (s *Store) AppendProvenance(ctx context.Context, e ProvenanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_provenance (run_id, entity_type, entity_id, created_at)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.EntityType, e.EntityID, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to append provenance: %w", err)
	}
	return nil
}

// ProvenanceForRun returns the ledger entries for a run in insertion order.
func (s *Store) ProvenanceForRun(ctx context.Context, runID string) ([]ProvenanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, entity_type, entity_id FROM seed_provenance
		WHERE run_id = ? ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		if err := rows.Scan(&e.RunID, &e.EntityType, &e.EntityID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteProvenanceForRun removes all ledger entries of a run.
func (s *Store) DeleteProvenanceForRun(ctx context.Context, runID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM seed_provenance WHERE run_id = ?", runID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// =============================================================================
// MASTER DATA: TEAMS, TOURS, EMPLOYEES, CUSTOMERS
// =============================================================================

// Team is a staff grouping.
type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// CreateTeam persists a team.
func (s *Store) CreateTeam(ctx context.Context, t Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)",
		t.ID, t.Name, now())
	return err
}

// DeleteTeam removes a team by id.
func (s *Store) DeleteTeam(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "teams", id)
}

// Tour is a geographic route a crew serves.
type Tour struct {
	ID        string
	Name      string
	TeamID    string
	CreatedAt time.Time
}

// CreateTour persists a tour.
func (s *Store) CreateTour(ctx context.Context, t Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tours (id, name, team_id, created_at) VALUES (?, ?, ?, ?)",
		t.ID, t.Name, t.TeamID, now())
	return err
}

// DeleteTour removes a tour by id.
func (s *Store) DeleteTour(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "tours", id)
}

// Employee is a technician.
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	TeamID    string
	TourID    string
	CreatedAt time.Time
}

// CreateEmployee persists an employee.
func (s *Store) CreateEmployee(ctx context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, email, team_id, tour_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FirstName, e.LastName, nullString(e.Email), e.TeamID, e.TourID, now())
	return err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, COALESCE(email, ''), team_id, tour_id, created_at
		FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var createdAt string
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.TeamID, &e.TourID, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee by id.
func (s *Store) DeleteEmployee(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "employees", id)
}

// Customer is the client a project belongs to.
type Customer struct {
	ID        string
	Name      string
	Street    string
	City      string
	CreatedAt time.Time
}

// CreateCustomer persists a customer.
func (s *Store) CreateCustomer(ctx context.Context, c Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, street, city, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullString(c.Street), nullString(c.City), now())
	return err
}

// DeleteCustomer removes a customer by id.
func (s *Store) DeleteCustomer(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "customers", id)
}

// =============================================================================
// PROJECTS
// =============================================================================

// Project is a seeded installation project with its catalog selection.
type Project struct {
	ID            string
	Name          string
	CustomerID    string
	ModelID       string
	ModelName     string
	AccessoryID   string // empty = none
	AccessoryName string
	OrderValue    string // decimal, stored as text
	CreatedAt     time.Time
}

// CreateProject persists a project.
func (s *Store) CreateProject(ctx context.Context, p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, customer_id, model_id, model_name, accessory_id, accessory_name, order_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CustomerID, p.ModelID, p.ModelName,
		nullString(p.AccessoryID), nullString(p.AccessoryName), p.OrderValue, now())
	return err
}

// DeleteProject removes a project by id.
func (s *Store) DeleteProject(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "projects", id)
}

// ProjectStatus is one status tag on a project.
type ProjectStatus struct {
	ID        string
	ProjectID string
	Status    string
}

// CreateProjectStatus persists a status tag.
func (s *Store) CreateProjectStatus(ctx context.Context, ps ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO project_status (id, project_id, status, created_at) VALUES (?, ?, ?, ?)",
		ps.ID, ps.ProjectID, ps.Status, now())
	return err
}

// DeleteProjectStatus removes a status tag by id.
func (s *Store) DeleteProjectStatus(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "project_status", id)
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

// Appointment is a persisted mount or rekl appointment.
type Appointment struct {
	ID           string
	ProjectID    string
	TourID       string
	Kind         string
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Version      int
	EmployeeIDs  []string
	CreatedAt    time.Time
}

// CreateAppointment persists the appointment row and its crew links in
// one local transaction. This is the materializer's unit of work.
func (s *Store) CreateAppointment(ctx context.Context, a Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (id, project_id, tour_id, kind, title, description, start_date, end_date, duration_days, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		a.ID, a.ProjectID, a.TourID, a.Kind, a.Title, nullString(a.Description),
		a.StartDate.Format(DateFormat), a.EndDate.Format(DateFormat), a.DurationDays, now())
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	for _, empID := range a.EmployeeIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO appointment_employees (appointment_id, employee_id) VALUES (?, ?)",
			a.ID, empID); err != nil {
			return fmt.Errorf("failed to link employee %s: %w", empID, err)
		}
	}
	return tx.Commit()
}

// GetAppointment returns an appointment with its crew, or ErrNotFound.
func (s *Store) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, tour_id, kind, title, COALESCE(description, ''),
		       start_date, end_date, duration_days, version, created_at
		FROM appointments WHERE id = ?`, id)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}
	a.EmployeeIDs, err = s.appointmentCrew(ctx, id)
	return a, err
}

// ListAppointments returns all appointments ordered by start date, crews
// included.
func (s *Store) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, tour_id, kind, title, COALESCE(description, ''),
		       start_date, end_date, duration_days, version, created_at
		FROM appointments ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		var a Appointment
		var start, end, createdAt string
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.TourID, &a.Kind, &a.Title, &a.Description,
			&start, &end, &a.DurationDays, &a.Version, &createdAt); err != nil {
			return nil, err
		}
		a.StartDate, _ = time.Parse(DateFormat, start)
		a.EndDate, _ = time.Parse(DateFormat, end)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range appointments {
		crew, err := s.appointmentCrew(ctx, appointments[i].ID)
		if err != nil {
			return nil, err
		}
		appointments[i].EmployeeIDs = crew
	}
	return appointments, nil
}

// UpdateAppointment rewrites title, description and dates with optimistic
// locking against expectedVersion.
func (s *Store) UpdateAppointment(ctx context.Context, a Appointment, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE appointments
		SET title = ?, description = ?, start_date = ?, end_date = ?, duration_days = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		a.Title, nullString(a.Description),
		a.StartDate.Format(DateFormat), a.EndDate.Format(DateFormat), a.DurationDays,
		a.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM appointments WHERE id = ?", a.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// DeleteAppointment removes an appointment row (links are deleted
// separately, before the row, during purge).
func (s *Store) DeleteAppointment(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "appointments", id)
}

// DeleteAppointmentEmployees removes the crew links for an appointment.
func (s *Store) DeleteAppointmentEmployees(ctx context.Context, appointmentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM appointment_employees WHERE appointment_id = ?", appointmentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) appointmentCrew(ctx context.Context, appointmentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id FROM appointment_employees
		WHERE appointment_id = ? ORDER BY employee_id`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crew []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		crew = append(crew, id)
	}
	return crew, rows.Err()
}

func scanAppointment(row *sql.Row) (*Appointment, error) {
	var a Appointment
	var start, end, createdAt string
	err := row.Scan(&a.ID, &a.ProjectID, &a.TourID, &a.Kind, &a.Title, &a.Description,
		&start, &end, &a.DurationDays, &a.Version, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.StartDate, _ = time.Parse(DateFormat, start)
	a.EndDate, _ = time.Parse(DateFormat, end)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// Attachment is file metadata; the bytes live at StoragePath on disk.
type Attachment struct {
	ID          string
	ProjectID   string
	FileName    string
	StoragePath string
	SizeBytes   int64
	CreatedAt   time.Time
}

// CreateAttachment persists attachment metadata.
func (s *Store) CreateAttachment(ctx context.Context, a Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, project_id, file_name, storage_path, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.FileName, a.StoragePath, a.SizeBytes, now())
	return err
}

// GetAttachment returns attachment metadata or ErrNotFound. Purge uses
// this to resolve ledger ids to storage paths.
func (s *Store) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a Attachment
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, file_name, storage_path, size_bytes, created_at
		FROM attachments WHERE id = ?`, id).
		Scan(&a.ID, &a.ProjectID, &a.FileName, &a.StoragePath, &a.SizeBytes, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// DeleteAttachment removes attachment metadata by id.
func (s *Store) DeleteAttachment(ctx context.Context, id string) (int64, error) {
	return s.deleteByID(ctx, "attachments", id)
}

// =============================================================================
// HELPERS
// =============================================================================

var deletableTables = map[string]bool{
	"seed_runs":      true,
	"teams":          true,
	"tours":          true,
	"employees":      true,
	"customers":      true,
	"projects":       true,
	"project_status": true,
	"appointments":   true,
	"attachments":    true,
}

func (s *Store) deleteByID(ctx context.Context, table, id string) (int64, error) {
	if !deletableTables[table] {
		return 0, fmt.Errorf("refusing delete on table %q", table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
