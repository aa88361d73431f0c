// Package fixtures holds the sample roster, fleet and mission data shared
// by tests across packages.
package fixtures

import (
	"time"

	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/store"
)

// Now is a reference instant before every sample mission and at least a
// week ahead of the sample maintenance dates that should not trigger.
var Now = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// Pilots returns the sample roster.
func Pilots() []model.Pilot {
	return []model.Pilot{
		{ID: "P001", Name: "Arjun", Skills: model.ParseTags("Mapping, Survey"), Certifications: model.ParseTags("DGCA, Night Ops"), Location: "Bangalore", Status: model.PilotAvailable, CurrentAssignment: model.NoAssignment, AvailableFrom: model.ParseDate("2026-02-05"), DailyRate: 1500},
		{ID: "P002", Name: "Neha", Skills: model.ParseTags("Inspection"), Certifications: model.ParseTags("DGCA"), Location: "Mumbai", Status: model.PilotAssigned, CurrentAssignment: "Project-A", AvailableFrom: model.ParseDate("2026-02-12"), DailyRate: 3000},
		{ID: "P003", Name: "Rohit", Skills: model.ParseTags("Inspection, Mapping"), Certifications: model.ParseTags("DGCA"), Location: "Mumbai", Status: model.PilotAvailable, CurrentAssignment: model.NoAssignment, AvailableFrom: model.ParseDate("2026-02-05"), DailyRate: 1500},
		{ID: "P004", Name: "Sneha", Skills: model.ParseTags("Survey, Thermal"), Certifications: model.ParseTags("DGCA, Night Ops"), Location: "Bangalore", Status: model.PilotOnLeave, CurrentAssignment: model.NoAssignment, AvailableFrom: model.ParseDate("2026-02-15"), DailyRate: 5000},
	}
}

// Drones returns the sample fleet.
func Drones() []model.Drone {
	return []model.Drone{
		{ID: "D001", Model: "DJI M300", Capabilities: model.ParseTags("LiDAR, RGB"), Status: model.DroneAvailable, Location: "Bangalore", CurrentAssignment: model.NoAssignment, MaintenanceDue: model.ParseDate("2026-03-01"), WeatherResistance: "IP43 (Rain)"},
		{ID: "D002", Model: "DJI Mavic 3", Capabilities: model.ParseTags("RGB"), Status: model.DroneMaintenance, Location: "Mumbai", CurrentAssignment: model.NoAssignment, MaintenanceDue: model.ParseDate("2026-02-01"), WeatherResistance: "None (Clear Sky Only)"},
		{ID: "D003", Model: "DJI Mavic 3T", Capabilities: model.ParseTags("Thermal"), Status: model.DroneAvailable, Location: "Mumbai", CurrentAssignment: model.NoAssignment, MaintenanceDue: model.ParseDate("2026-04-01"), WeatherResistance: "IP43 (Rain)"},
		{ID: "D004", Model: "Autel Evo II", Capabilities: model.ParseTags("Thermal, RGB"), Status: model.DroneAvailable, Location: "Bangalore", CurrentAssignment: model.NoAssignment, MaintenanceDue: model.ParseDate("2026-03-15"), WeatherResistance: "None (Clear Sky Only)"},
	}
}

// Missions returns the sample missions.
func Missions() []model.Mission {
	return []model.Mission{
		{ID: "PRJ001", Client: "Client A", Location: "Bangalore", RequiredSkills: model.ParseTags("Mapping"), RequiredCerts: model.ParseTags("DGCA"), Start: model.ParseDate("2026-02-06"), End: model.ParseDate("2026-02-08"), Priority: model.PriorityHigh, Budget: 10500, Forecast: model.ForecastRainy},
		{ID: "PRJ002", Client: "Client B", Location: "Mumbai", RequiredSkills: model.ParseTags("Inspection"), RequiredCerts: model.ParseTags("DGCA, Night Ops"), Start: model.ParseDate("2026-02-07"), End: model.ParseDate("2026-02-09"), Priority: model.PriorityUrgent, Budget: 10500, Forecast: model.ForecastSunny},
		{ID: "PRJ003", Client: "Client C", Location: "Bangalore", RequiredSkills: model.ParseTags("Thermal"), RequiredCerts: model.ParseTags("DGCA"), Start: model.ParseDate("2026-02-10"), End: model.ParseDate("2026-02-12"), Priority: model.PriorityStandard, Budget: 10500, Forecast: model.ForecastCloudy},
	}
}

// Snapshot returns all sample collections.
func Snapshot() store.Snapshot {
	return store.Snapshot{Pilots: Pilots(), Drones: Drones(), Missions: Missions()}
}

// Store returns a memory store loaded with the sample data.
func Store() *store.MemoryStore {
	return store.NewMemoryStore(Pilots(), Drones(), Missions())
}
