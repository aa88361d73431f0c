package model

import (
	"strings"
	"time"
)

// Priority ranks missions.
type Priority string

const (
	PriorityStandard Priority = "Standard"
	PriorityHigh     Priority = "High"
	PriorityUrgent   Priority = "Urgent"
)

// Forecast is the weather expected over a mission.
type Forecast string

const (
	ForecastSunny  Forecast = "Sunny"
	ForecastCloudy Forecast = "Cloudy"
	ForecastRainy  Forecast = "Rainy"
)

// Is compares forecasts ignoring case.
func (f Forecast) Is(other Forecast) bool {
	return strings.EqualFold(strings.TrimSpace(string(f)), string(other))
}

// Mission is a snapshot of a project to staff.
type Mission struct {
	ID             string    `json:"project_id"`
	Client         string    `json:"client"`
	Location       string    `json:"location"`
	RequiredSkills Tags      `json:"required_skills"`
	RequiredCerts  Tags      `json:"required_certs"`
	Start          time.Time `json:"start_date"`
	End            time.Time `json:"end_date"`
	Priority       Priority  `json:"priority"`
	Budget         float64   `json:"mission_budget_inr"`
	Forecast       Forecast  `json:"weather_forecast"`
}
