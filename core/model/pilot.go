package model

import (
	"strings"
	"time"
)

// NoAssignment is the sentinel stored when an entity has no mission.
const NoAssignment = "-"

// PilotStatus is the roster status of a pilot.
type PilotStatus string

const (
	PilotAvailable   PilotStatus = "Available"
	PilotAssigned    PilotStatus = "Assigned"
	PilotOnLeave     PilotStatus = "On Leave"
	PilotUnavailable PilotStatus = "Unavailable"
)

var pilotStatuses = []PilotStatus{PilotAvailable, PilotAssigned, PilotOnLeave, PilotUnavailable}

// ParsePilotStatus matches raw case-insensitively against the known statuses.
func ParsePilotStatus(raw string) (PilotStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range pilotStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

// Pilot is a snapshot of a roster entry.
type Pilot struct {
	ID                string      `json:"pilot_id"`
	Name              string      `json:"name"`
	Skills            Tags        `json:"skills"`
	Certifications    Tags        `json:"certifications"`
	Location          string      `json:"location"`
	Status            PilotStatus `json:"status"`
	CurrentAssignment string      `json:"current_assignment"`
	AvailableFrom     time.Time   `json:"available_from"`
	DailyRate         float64     `json:"daily_rate_inr"`
}

// HasAssignment reports whether the pilot holds an active assignment.
func (p Pilot) HasAssignment() bool { return IsActiveAssignment(p.CurrentAssignment) }

// IsActiveAssignment returns true for a non-empty, non-sentinel mission id.
func IsActiveAssignment(a string) bool {
	a = strings.TrimSpace(a)
	return a != "" && a != NoAssignment
}

// SameLocation compares two locations ignoring case and surrounding spaces.
func SameLocation(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
