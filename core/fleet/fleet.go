// Package fleet filters drone records and evaluates weather and
// maintenance readiness.
package fleet

import (
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/model"
)

// MaintenanceWindow is how far ahead a due date counts as needing service.
const MaintenanceWindow = 7 * 24 * time.Hour

// Filter narrows the fleet. Empty fields and a nil WeatherResistant are unconstrained.
type Filter struct {
	Capability       string `json:"capability,omitempty"`
	Location         string `json:"location,omitempty"`
	Status           string `json:"status,omitempty"`
	WeatherResistant *bool  `json:"weather_resistant,omitempty"`
}

// Matches reports whether d satisfies every set criterion.
func (f Filter) Matches(d model.Drone) bool {
	if f.Capability != "" && !d.Capabilities.Match(f.Capability) {
		return false
	}
	if f.Location != "" && !model.SameLocation(d.Location, f.Location) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(d.Status), strings.TrimSpace(f.Status)) {
		return false
	}
	if f.WeatherResistant != nil && IsWeatherProof(d) != *f.WeatherResistant {
		return false
	}
	return true
}

// Query returns the drones matching f, in fleet order.
func Query(drones []model.Drone, f Filter) []model.Drone {
	res := make([]model.Drone, 0, len(drones))
	for _, d := range drones {
		if f.Matches(d) {
			res = append(res, d)
		}
	}
	return res
}

// Find returns the first drone row with the given id.
func Find(drones []model.Drone, id string) (model.Drone, bool) {
	for _, d := range drones {
		if d.ID == id {
			return d, true
		}
	}
	return model.Drone{}, false
}

// IsWeatherProof reports whether the resistance rating allows rain flight.
func IsWeatherProof(d model.Drone) bool {
	r := strings.ToLower(d.WeatherResistance)
	return strings.Contains(r, "ip") || strings.Contains(r, "rain")
}

// CanOperate reports whether d can fly under forecast. Unrecognised
// forecasts are treated as operable.
func CanOperate(d model.Drone, forecast model.Forecast) bool {
	switch {
	case forecast.Is(model.ForecastSunny), forecast.Is(model.ForecastCloudy):
		return true
	case forecast.Is(model.ForecastRainy):
		return IsWeatherProof(d)
	default:
		return true
	}
}

// NeedsMaintenance reports whether the drone is in service or due within
// MaintenanceWindow of now. Overdue drones count as due.
func NeedsMaintenance(d model.Drone, now time.Time) bool {
	if d.Status == model.DroneMaintenance {
		return true
	}
	if d.MaintenanceDue.IsZero() {
		return false
	}
	return !d.MaintenanceDue.After(now.Add(MaintenanceWindow))
}

// IsAvailable reports whether the drone can be handed a new mission.
func IsAvailable(d model.Drone, now time.Time) bool {
	return d.Status == model.DroneAvailable && !NeedsMaintenance(d, now)
}

// NeedingMaintenance returns the drones that need service, in fleet order.
func NeedingMaintenance(drones []model.Drone, now time.Time) []model.Drone {
	res := make([]model.Drone, 0)
	for _, d := range drones {
		if NeedsMaintenance(d, now) {
			res = append(res, d)
		}
	}
	return res
}
