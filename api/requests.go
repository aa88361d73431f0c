package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/skyops/core/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("pilotstatus", func(fl validator.FieldLevel) bool {
		_, ok := model.ParsePilotStatus(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation("dronestatus", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseDroneStatus(fl.Field().String())
		return ok
	})
}

// PilotStatusRequest is the body of PUT /api/pilots/{id}/status.
type PilotStatusRequest struct {
	Status string `json:"status" validate:"required,pilotstatus"`
}

// DroneStatusRequest is the body of PUT /api/drones/{id}/status.
type DroneStatusRequest struct {
	Status string `json:"status" validate:"required,dronestatus"`
}

// AssignmentRequest is the body of POST /api/assignments.
type AssignmentRequest struct {
	PilotID   string `json:"pilot_id" validate:"required"`
	DroneID   string `json:"drone_id" validate:"required"`
	MissionID string `json:"mission_id" validate:"required"`
}

// UrgentRequest is the body of POST /api/missions/{id}/urgent.
type UrgentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
