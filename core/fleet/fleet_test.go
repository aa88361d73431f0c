package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/skyops/core/model"
)

var now = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func sampleDrones() []model.Drone {
	return []model.Drone{
		{ID: "D001", Model: "DJI M300", Capabilities: model.ParseTags("LiDAR, RGB"), Status: model.DroneAvailable, Location: "Bangalore", MaintenanceDue: model.ParseDate("2026-03-01"), WeatherResistance: "IP43 (Rain)"},
		{ID: "D002", Model: "DJI Mavic 3", Capabilities: model.ParseTags("RGB"), Status: model.DroneMaintenance, Location: "Mumbai", MaintenanceDue: model.ParseDate("2026-02-01"), WeatherResistance: "None (Clear Sky Only)"},
		{ID: "D003", Model: "DJI Mavic 3T", Capabilities: model.ParseTags("Thermal"), Status: model.DroneAvailable, Location: "Mumbai", MaintenanceDue: model.ParseDate("2026-02-05"), WeatherResistance: "IP43 (Rain)"},
		{ID: "D004", Model: "Autel Evo II", Capabilities: model.ParseTags("Thermal, RGB"), Status: model.DroneAvailable, Location: "Bangalore", MaintenanceDue: model.ParseDate("2026-03-15"), WeatherResistance: "None (Clear Sky Only)"},
	}
}

func TestCanOperate(t *testing.T) {
	drones := sampleDrones()
	assert.True(t, CanOperate(drones[0], model.ForecastRainy), "IP43 (Rain) is rain capable")
	assert.False(t, CanOperate(drones[3], model.ForecastRainy), "clear sky only")
	assert.True(t, CanOperate(drones[3], "sunny"))
	assert.True(t, CanOperate(drones[3], model.ForecastCloudy))
	assert.True(t, CanOperate(drones[3], "Snow"), "unknown forecast fails open")
}

func TestIsWeatherProofCaseInsensitive(t *testing.T) {
	assert.True(t, IsWeatherProof(model.Drone{WeatherResistance: "rainproof"}))
	assert.True(t, IsWeatherProof(model.Drone{WeatherResistance: "ip67"}))
	assert.False(t, IsWeatherProof(model.Drone{WeatherResistance: "None"}))
}

func TestMaintenance(t *testing.T) {
	drones := sampleDrones()
	assert.False(t, NeedsMaintenance(drones[0], now))
	assert.True(t, NeedsMaintenance(drones[1], now), "status maintenance")
	assert.True(t, NeedsMaintenance(drones[2], now), "due in four days")
	assert.False(t, NeedsMaintenance(model.Drone{Status: model.DroneAvailable}, now), "unknown due date")
	assert.True(t, IsAvailable(drones[0], now))
	assert.False(t, IsAvailable(drones[2], now))

	due := NeedingMaintenance(drones, now)
	if len(due) != 2 || due[0].ID != "D002" || due[1].ID != "D003" {
		t.Fatalf("unexpected maintenance list %#v", due)
	}
}

func TestQuery(t *testing.T) {
	drones := sampleDrones()
	yes, no := true, false
	cases := []struct {
		name string
		f    Filter
		want int
	}{
		{"all", Filter{}, 4},
		{"capability", Filter{Capability: "thermal"}, 2},
		{"location", Filter{Location: "MUMBAI"}, 2},
		{"status", Filter{Status: "available"}, 3},
		{"weather resistant", Filter{WeatherResistant: &yes}, 2},
		{"not weather resistant", Filter{WeatherResistant: &no, Capability: "rgb"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, Query(drones, tc.f), tc.want)
		})
	}
}
