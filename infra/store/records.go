// Package store provides record store backends: raw row coercion, YAML
// seed files, a SQLite store and the config-driven factory.
package store

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/skyops/core/model"
)

// Number is a numeric cell. Anything that does not parse becomes 0.
type Number float64

// ParseNumber coerces a raw cell to a Number.
func ParseNumber(raw string) Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return Number(f)
}

// UnmarshalYAML accepts any scalar.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	*n = ParseNumber(node.Value)
	return nil
}

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

// PilotRecord is a pilot row as stored, one string per column.
type PilotRecord struct {
	ID                string `yaml:"pilot_id"`
	Name              string `yaml:"name"`
	Skills            string `yaml:"skills"`
	Certifications    string `yaml:"certifications"`
	Location          string `yaml:"location"`
	Status            string `yaml:"status"`
	CurrentAssignment string `yaml:"current_assignment"`
	AvailableFrom     string `yaml:"available_from"`
	DailyRate         Number `yaml:"daily_rate_inr"`
}

// DroneRecord is a drone row as stored.
type DroneRecord struct {
	ID                string `yaml:"drone_id"`
	Model             string `yaml:"model"`
	Capabilities      string `yaml:"capabilities"`
	Status            string `yaml:"status"`
	Location          string `yaml:"location"`
	CurrentAssignment string `yaml:"current_assignment"`
	MaintenanceDue    string `yaml:"maintenance_due"`
	WeatherResistance string `yaml:"weather_resistance"`
}

// MissionRecord is a mission row as stored.
type MissionRecord struct {
	ID             string `yaml:"project_id"`
	Client         string `yaml:"client"`
	Location       string `yaml:"location"`
	RequiredSkills string `yaml:"required_skills"`
	RequiredCerts  string `yaml:"required_certs"`
	StartDate      string `yaml:"start_date"`
	EndDate        string `yaml:"end_date"`
	Priority       string `yaml:"priority"`
	Budget         Number `yaml:"mission_budget_inr"`
	Forecast       string `yaml:"weather_forecast"`
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Pilot coerces the row. A blank assignment becomes "-" and a blank status
// Available. Unknown statuses are kept verbatim so the gates reject them.
func (r PilotRecord) Pilot() model.Pilot {
	status := model.PilotStatus(orDefault(r.Status, string(model.PilotAvailable)))
	if s, ok := model.ParsePilotStatus(string(status)); ok {
		status = s
	}
	return model.Pilot{
		ID:                strings.TrimSpace(r.ID),
		Name:              strings.TrimSpace(r.Name),
		Skills:            model.ParseTags(r.Skills),
		Certifications:    model.ParseTags(r.Certifications),
		Location:          strings.TrimSpace(r.Location),
		Status:            status,
		CurrentAssignment: orDefault(r.CurrentAssignment, model.NoAssignment),
		AvailableFrom:     model.ParseDate(r.AvailableFrom),
		DailyRate:         float64(r.DailyRate),
	}
}

// Drone coerces the row. A blank assignment becomes "-" and a blank status
// Available.
func (r DroneRecord) Drone() model.Drone {
	status := model.DroneStatus(orDefault(r.Status, string(model.DroneAvailable)))
	if s, ok := model.ParseDroneStatus(string(status)); ok {
		status = s
	}
	return model.Drone{
		ID:                strings.TrimSpace(r.ID),
		Model:             strings.TrimSpace(r.Model),
		Capabilities:      model.ParseTags(r.Capabilities),
		Status:            status,
		Location:          strings.TrimSpace(r.Location),
		CurrentAssignment: orDefault(r.CurrentAssignment, model.NoAssignment),
		MaintenanceDue:    model.ParseDate(r.MaintenanceDue),
		WeatherResistance: strings.TrimSpace(r.WeatherResistance),
	}
}

// Mission coerces the row. Blank priority becomes Standard and blank
// forecast Sunny.
func (r MissionRecord) Mission() model.Mission {
	return model.Mission{
		ID:             strings.TrimSpace(r.ID),
		Client:         strings.TrimSpace(r.Client),
		Location:       strings.TrimSpace(r.Location),
		RequiredSkills: model.ParseTags(r.RequiredSkills),
		RequiredCerts:  model.ParseTags(r.RequiredCerts),
		Start:          model.ParseDate(r.StartDate),
		End:            model.ParseDate(r.EndDate),
		Priority:       model.Priority(orDefault(r.Priority, string(model.PriorityStandard))),
		Budget:         float64(r.Budget),
		Forecast:       model.Forecast(orDefault(r.Forecast, string(model.ForecastSunny))),
	}
}
