/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  Decouples the JSON wire format from the store records. Snapshots
  (config, summary) are stored as JSON strings and passed through as raw
  messages, so the API never re-interprets what the seeder wrote.
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/dispatch-engine/store/sqlite"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SeedRunDTO is one seed run with its snapshots.
type SeedRunDTO struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Config    json.RawMessage `json:"config"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toSeedRunDTO(r sqlite.SeedRun) SeedRunDTO {
	dto := SeedRunDTO{
		ID:        r.ID,
		Status:    r.Status,
		Config:    json.RawMessage(r.ConfigJSON),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.SummaryJSON != "" {
		dto.Summary = json.RawMessage(r.SummaryJSON)
	}
	return dto
}

// EmployeeDTO is a technician row as exposed for inspection.
type EmployeeDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	TeamID    string `json:"teamId"`
	TourID    string `json:"tourId"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		TeamID:    e.TeamID,
		TourID:    e.TourID,
	}
}

// AppointmentDTO is an appointment row with its crew.
type AppointmentDTO struct {
	ID           string   `json:"id"`
	ProjectID    string   `json:"projectId"`
	TourID       string   `json:"tourId"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	DurationDays int      `json:"durationDays"`
	EmployeeIDs  []string `json:"employeeIds"`
}

func toAppointmentDTO(a sqlite.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		TourID:       a.TourID,
		Kind:         a.Kind,
		Title:        a.Title,
		Description:  a.Description,
		StartDate:    a.StartDate.Format(sqlite.DateFormat),
		EndDate:      a.EndDate.Format(sqlite.DateFormat),
		DurationDays: a.DurationDays,
		EmployeeIDs:  a.EmployeeIDs,
	}
}
