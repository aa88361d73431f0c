package model

import "time"

// PilotMatch is a scored pilot candidate for a mission.
type PilotMatch struct {
	Pilot    Pilot    `json:"pilot"`
	Score    int      `json:"score"`
	Cost     float64  `json:"cost"`
	Warnings []string `json:"warnings"`
}

// DroneMatch is a scored drone candidate for a mission.
type DroneMatch struct {
	Drone    Drone    `json:"drone"`
	Score    int      `json:"score"`
	Warnings []string `json:"warnings"`
}

// ReassignmentOption is a candidate hand-off bundle. Either side may be
// absent when only one replacement is searched for.
type ReassignmentOption struct {
	Pilot            *Pilot   `json:"pilot,omitempty"`
	Drone            *Drone   `json:"drone,omitempty"`
	Cost             float64  `json:"cost"`
	FeasibilityScore int      `json:"feasibility_score"`
	Warnings         []string `json:"warnings"`
	Reasons          []string `json:"reasons"`
}

// PilotCost is the price of staffing a mission with a pilot.
type PilotCost struct {
	Pilot     Pilot   `json:"pilot"`
	Mission   Mission `json:"mission"`
	TotalCost float64 `json:"total_cost"`
	Duration  int     `json:"duration"`
}

// Assignment records a pilot and drone handed to a mission.
type Assignment struct {
	ID         string    `json:"id"`
	PilotID    string    `json:"pilot_id"`
	DroneID    string    `json:"drone_id"`
	MissionID  string    `json:"mission_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Message    string    `json:"message"`
}

// ActiveAssignment joins an assigned pilot with its mission and drone.
// Mission and Drone are nil when the reference cannot be resolved.
type ActiveAssignment struct {
	Pilot   Pilot    `json:"pilot"`
	Drone   *Drone   `json:"drone,omitempty"`
	Mission *Mission `json:"mission,omitempty"`
}

// DroneAssignment joins a drone with the mission it is deployed on.
type DroneAssignment struct {
	Drone   Drone    `json:"drone"`
	Mission *Mission `json:"mission,omitempty"`
}
