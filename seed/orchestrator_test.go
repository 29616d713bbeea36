package seed

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/catalog"
	"github.com/warp/dispatch-engine/store/sqlite"
)

// anchorMonday keeps every run in the suite on the same calendar.
var anchorMonday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func exampleConfig() Config {
	return Config{
		Employees:              12,
		Customers:              8,
		Projects:               8,
		AppointmentsPerProject: 1,
		RandomSeed:             424242,
		WindowMinDays:          60,
		WindowMaxDays:          90,
		ReklDelayMinDays:       14,
		ReklDelayMaxDays:       42,
		ReklShare:              0.5,
		Locale:                 "de",
	}
}

func newSeedEnv(t *testing.T) (*Seeder, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cat, err := catalog.Load("")
	require.NoError(t, err)

	seeder := NewSeeder(store, cat, zap.NewNop(),
		WithAnchor(anchorMonday),
		WithAttachmentDir(t.TempDir()))
	return seeder, store
}

func TestRun_WorkedExample(t *testing.T) {
	seeder, store := newSeedEnv(t)
	ctx := context.Background()

	cfg := exampleConfig()
	cfg.Attachments = true
	result, err := seeder.Run(ctx, cfg)
	require.NoError(t, err)

	created := result.Summary.Created
	require.Equal(t, 8, created.Projects)
	require.Equal(t, 2, created.Teams)
	require.Equal(t, 4, created.Tours)
	require.Equal(t, 12, created.Employees)
	require.Equal(t, 8, created.Customers)

	// One mount per project, modulo reductions.
	require.Equal(t, 8, created.MountAppointments+result.Summary.Reductions.Appointments)
	require.LessOrEqual(t, created.ReklAppointments, 8)

	run, err := store.GetSeedRun(ctx, result.RunID)
	require.NoError(t, err)
	require.Equal(t, StatusCreated, run.Status)
	require.NotEmpty(t, run.SummaryJSON)

	// Collect the attachment paths before purging so the on-disk check
	// has something concrete to verify against.
	ledger, err := store.ProvenanceForRun(ctx, result.RunID)
	require.NoError(t, err)
	var paths []string
	for _, e := range ledger {
		if e.EntityType == "attachment" {
			att, err := store.GetAttachment(ctx, e.EntityID)
			require.NoError(t, err)
			require.FileExists(t, att.StoragePath)
			paths = append(paths, att.StoragePath)
		}
	}

	purge, err := NewPurger(store, zap.NewNop()).Purge(ctx, result.RunID)
	require.NoError(t, err)
	require.False(t, purge.NoOp)
	require.Equal(t, int64(12), purge.Deleted["employee"])
	require.Equal(t, int64(8), purge.Deleted["project"])
	require.Equal(t,
		int64(created.MountAppointments+created.ReklAppointments),
		purge.Deleted["appointment"])

	_, err = store.GetSeedRun(ctx, result.RunID)
	require.ErrorIs(t, err, sqlite.ErrNotFound)
	remaining, err := store.ProvenanceForRun(ctx, result.RunID)
	require.NoError(t, err)
	require.Empty(t, remaining)
	for _, p := range paths {
		require.NoFileExists(t, p)
	}
}

func TestRun_DeterministicForExplicitSeed(t *testing.T) {
	runOnce := func(t *testing.T) (Counts, []string) {
		seeder, store := newSeedEnv(t)
		result, err := seeder.Run(context.Background(), exampleConfig())
		require.NoError(t, err)

		appointments, err := store.ListAppointments(context.Background())
		require.NoError(t, err)
		titles := make([]string, 0, len(appointments))
		for _, a := range appointments {
			titles = append(titles, a.Title+" | "+a.Description)
		}
		sort.Strings(titles)
		return result.Summary.Created, titles
	}

	countsA, titlesA := runOnce(t)
	countsB, titlesB := runOnce(t)
	require.Equal(t, countsA, countsB)
	require.Equal(t, titlesA, titlesB)
}

func TestRun_NoAppointmentTouchesWeekend(t *testing.T) {
	seeder, store := newSeedEnv(t)
	_, err := seeder.Run(context.Background(), exampleConfig())
	require.NoError(t, err)

	appointments, err := store.ListAppointments(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, appointments)

	for _, a := range appointments {
		for d := 0; d < a.DurationDays; d++ {
			day := a.StartDate.AddDate(0, 0, d)
			wd := day.Weekday()
			require.NotEqual(t, time.Saturday, wd, "appointment %s covers a Saturday", a.ID)
			require.NotEqual(t, time.Sunday, wd, "appointment %s covers a Sunday", a.ID)
		}
	}
}

func TestRun_SpansStayInsideWindow(t *testing.T) {
	seeder, store := newSeedEnv(t)
	cfg := exampleConfig()
	_, err := seeder.Run(context.Background(), cfg)
	require.NoError(t, err)

	windowStart := anchorMonday.AddDate(0, 0, cfg.WindowMinDays)
	windowEnd := anchorMonday.AddDate(0, 0, cfg.WindowMaxDays)
	reklEnd := windowEnd.AddDate(0, 0, cfg.ReklDelayMaxDays)

	appointments, err := store.ListAppointments(context.Background())
	require.NoError(t, err)
	for _, a := range appointments {
		require.False(t, a.StartDate.Before(windowStart), "appointment %s starts before the window", a.ID)
		if a.Kind == "mount" {
			require.False(t, a.EndDate.After(windowEnd), "mount %s ends after the window", a.ID)
		} else {
			require.False(t, a.EndDate.After(reklEnd), "rekl %s ends after the extended window", a.ID)
		}
	}
}

func TestRun_ReklDelayWithinConfiguredRange(t *testing.T) {
	seeder, store := newSeedEnv(t)
	cfg := exampleConfig()
	result, err := seeder.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Greater(t, result.Summary.Created.ReklAppointments, 0,
		"config with share 0.5 and accessory projects should yield at least one rekl")

	appointments, err := store.ListAppointments(context.Background())
	require.NoError(t, err)

	mountStart := make(map[string]time.Time)
	for _, a := range appointments {
		if a.Kind == "mount" {
			mountStart[a.ProjectID] = a.StartDate
		}
	}
	for _, a := range appointments {
		if a.Kind != "rekl" {
			continue
		}
		base, ok := mountStart[a.ProjectID]
		require.True(t, ok, "rekl %s has no mount on project %s", a.ID, a.ProjectID)

		delay := int(a.StartDate.Sub(base).Hours() / 24)
		require.GreaterOrEqual(t, delay, cfg.ReklDelayMinDays)
		require.LessOrEqual(t, delay, cfg.ReklDelayMaxDays)
	}
}

func TestRun_NoEmployeeDoubleBooked(t *testing.T) {
	seeder, store := newSeedEnv(t)
	_, err := seeder.Run(context.Background(), exampleConfig())
	require.NoError(t, err)

	appointments, err := store.ListAppointments(context.Background())
	require.NoError(t, err)

	occupied := make(map[string]map[string]string) // employee -> day -> appointment
	for _, a := range appointments {
		for d := 0; d < a.DurationDays; d++ {
			day := a.StartDate.AddDate(0, 0, d).Format(sqlite.DateFormat)
			for _, emp := range a.EmployeeIDs {
				if occupied[emp] == nil {
					occupied[emp] = make(map[string]string)
				}
				if other, busy := occupied[emp][day]; busy {
					t.Fatalf("employee %s booked on %s by both %s and %s", emp, day, other, a.ID)
				}
				occupied[emp][day] = a.ID
			}
		}
	}
}

func TestRun_InvalidConfigWritesNothing(t *testing.T) {
	seeder, store := newSeedEnv(t)

	cfg := exampleConfig()
	cfg.ReklShare = 2
	_, err := seeder.Run(context.Background(), cfg)
	require.Error(t, err)

	runs, err := store.ListSeedRuns(context.Background())
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestRun_CompensatesAfterMidRunFailure(t *testing.T) {
	// GIVEN an attachment directory that is actually a file, so the
	// attachment step fails after all master data exists
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	cat, err := catalog.Load("")
	require.NoError(t, err)

	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	seeder := NewSeeder(store, cat, zap.NewNop(),
		WithAnchor(anchorMonday),
		WithAttachmentDir(blocked))

	cfg := exampleConfig()
	cfg.Attachments = true

	// WHEN the run fails mid-flight
	_, err = seeder.Run(context.Background(), cfg)
	require.Error(t, err)

	// THEN the compensating purge removed every partial row
	runs, lerr := store.ListSeedRuns(context.Background())
	require.NoError(t, lerr)
	require.Empty(t, runs)
	employees, lerr := store.ListEmployees(context.Background())
	require.NoError(t, lerr)
	require.Empty(t, employees)
	appointments, lerr := store.ListAppointments(context.Background())
	require.NoError(t, lerr)
	require.Empty(t, appointments)
}

func TestPurge_TwiceIsNoOp(t *testing.T) {
	seeder, store := newSeedEnv(t)
	ctx := context.Background()

	result, err := seeder.Run(ctx, exampleConfig())
	require.NoError(t, err)

	purger := NewPurger(store, zap.NewNop())
	first, err := purger.Purge(ctx, result.RunID)
	require.NoError(t, err)
	require.False(t, first.NoOp)

	second, err := purger.Purge(ctx, result.RunID)
	require.NoError(t, err)
	require.True(t, second.NoOp)
	require.Empty(t, second.Deleted)
	require.Zero(t, second.Files)
}

func TestPurge_UnknownRunIsNoOp(t *testing.T) {
	_, store := newSeedEnv(t)

	result, err := NewPurger(store, zap.NewNop()).Purge(context.Background(), "never-existed")
	require.NoError(t, err)
	require.True(t, result.NoOp)
	require.Empty(t, result.Deleted)
}

func TestPurge_ToleratesAlreadyMissingFile(t *testing.T) {
	_, store := newSeedEnv(t)
	ctx := context.Background()

	dir := t.TempDir()
	present := filepath.Join(dir, "present.pdf")
	require.NoError(t, os.WriteFile(present, []byte("sheet"), 0o644))

	require.NoError(t, store.CreateSeedRun(ctx, sqlite.SeedRun{
		ID: "run-1", Status: StatusCreated, ConfigJSON: "{}",
	}))
	for i, path := range []string{present, filepath.Join(dir, "gone.pdf")} {
		id := []string{"att-1", "att-2"}[i]
		require.NoError(t, store.CreateAttachment(ctx, sqlite.Attachment{
			ID: id, ProjectID: "proj-1", FileName: "f.pdf", StoragePath: path, SizeBytes: 5,
		}))
		require.NoError(t, store.AppendProvenance(ctx, sqlite.ProvenanceEntry{
			RunID: "run-1", EntityType: "attachment", EntityID: id,
		}))
	}

	result, err := NewPurger(store, zap.NewNop()).Purge(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, 1, result.Files)
	require.Len(t, result.Warnings, 1)
	require.NoFileExists(t, present)
	require.Equal(t, int64(2), result.Deleted["attachment"])
}
