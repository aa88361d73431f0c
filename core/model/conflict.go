package model

// ConflictKind classifies an inconsistency found in the assignment state.
type ConflictKind string

const (
	ConflictDoubleBooking    ConflictKind = "double-booking"
	ConflictSkillMismatch    ConflictKind = "skill-mismatch"
	ConflictCertMismatch     ConflictKind = "cert-mismatch"
	ConflictBudgetOverrun    ConflictKind = "budget-overrun"
	ConflictWeatherRisk      ConflictKind = "weather-risk"
	ConflictLocationMismatch ConflictKind = "location-mismatch"
)

// Severity grades a conflict.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Conflict is derived on every detection run and never stored.
type Conflict struct {
	Kind      ConflictKind `json:"type"`
	Severity  Severity     `json:"severity"`
	Message   string       `json:"message"`
	EntityID  string       `json:"entity_id"`
	MissionID string       `json:"mission_id,omitempty"`
}
