package model

import (
	"strings"
	"time"
)

// DroneStatus is the fleet status of a drone.
type DroneStatus string

const (
	DroneAvailable   DroneStatus = "Available"
	DroneMaintenance DroneStatus = "Maintenance"
	DroneDeployed    DroneStatus = "Deployed"
)

var droneStatuses = []DroneStatus{DroneAvailable, DroneMaintenance, DroneDeployed}

// ParseDroneStatus matches raw case-insensitively against the known statuses.
func ParseDroneStatus(raw string) (DroneStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range droneStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

// Drone is a snapshot of a fleet entry.
type Drone struct {
	ID                string      `json:"drone_id"`
	Model             string      `json:"model"`
	Capabilities      Tags        `json:"capabilities"`
	Status            DroneStatus `json:"status"`
	Location          string      `json:"location"`
	CurrentAssignment string      `json:"current_assignment"`
	MaintenanceDue    time.Time   `json:"maintenance_due"`
	// WeatherResistance is free text such as "IP43 (Rain)".
	WeatherResistance string `json:"weather_resistance"`
}

// HasAssignment reports whether the drone holds an active assignment.
func (d Drone) HasAssignment() bool { return IsActiveAssignment(d.CurrentAssignment) }
