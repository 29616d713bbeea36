/*
handlers.go - HTTP handlers for seed runs and inspection listings

PURPOSE:
  Exposes the seeding engine over REST. Handlers parse the request,
  delegate to the seeder/purger, and serialize the result; no scheduling
  logic lives here.

ENDPOINTS:
  Seed runs:
    POST   /api/seed-runs        Execute a seed run (body = config)
    GET    /api/seed-runs        List runs with config + summary snapshots
    GET    /api/seed-runs/{id}   Get one run
    DELETE /api/seed-runs/{id}   Purge a run (idempotent)

  Inspection (read-only):
    GET    /api/employees        List seeded technicians
    GET    /api/appointments     List seeded appointments with crews

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  A purge of an unknown run is 200 with noOp=true, not 404.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/seed"
	"github.com/warp/dispatch-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Seeder *seed.Seeder
	Purger *seed.Purger
	Log    *zap.Logger
}

// NewHandler creates a handler over the store and seeding engine.
func NewHandler(store *sqlite.Store, seeder *seed.Seeder, purger *seed.Purger, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: store, Seeder: seeder, Purger: purger, Log: log}
}

// =============================================================================
// SEED RUN ENDPOINTS
// =============================================================================

// CreateSeedRun executes a seed run synchronously.
// POST /api/seed-runs
func (h *Handler) CreateSeedRun(w http.ResponseWriter, r *http.Request) {
	var cfg seed.Config
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	result, err := h.Seeder.Run(r.Context(), cfg)
	if err != nil {
		if isConfigError(err) {
			writeError(w, http.StatusBadRequest, "invalid configuration", err)
			return
		}
		h.Log.Error("seed run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "seed run failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListSeedRuns returns all runs, newest first.
// GET /api/seed-runs
func (h *Handler) ListSeedRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListSeedRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list seed runs", err)
		return
	}

	dtos := make([]SeedRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toSeedRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSeedRun returns one run.
// GET /api/seed-runs/{id}
func (h *Handler) GetSeedRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetSeedRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "seed run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load seed run", err)
		return
	}
	writeJSON(w, http.StatusOK, toSeedRunDTO(*run))
}

// PurgeSeedRun deletes a run and everything it created. Unknown ids are
// a successful no-op.
// DELETE /api/seed-runs/{id}
func (h *Handler) PurgeSeedRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.Purger.Purge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.Log.Error("purge failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "purge failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// INSPECTION ENDPOINTS
// =============================================================================

// ListEmployees returns all seeded technicians.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAppointments returns all appointments with their crews.
// GET /api/appointments
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.Store.ListAppointments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list appointments", err)
		return
	}

	dtos := make([]AppointmentDTO, 0, len(appointments))
	for _, a := range appointments {
		dtos = append(dtos, toAppointmentDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func isConfigError(err error) bool {
	return strings.HasPrefix(err.Error(), "invalid config")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
