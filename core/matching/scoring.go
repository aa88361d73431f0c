package matching

import (
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/skyops/core/fleet"
	"github.com/kilianp07/skyops/core/missions"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
)

// Scoring weights.
const (
	LocationBonus    = 30
	LocationPenalty  = -10
	SkillsBonus      = 30
	CertsBonus       = 30
	UrgentGapPenalty = -20
	BudgetBonus      = 10
	BudgetPenalty    = -15
	AvailableBonus   = 10
	AvailablePenalty = -10
	WeatherBonus     = 40
	CapabilityBonus  = 15
)

// PilotEligible applies the status gate. Urgent searches may poach
// assigned pilots but never those on leave or unavailable.
func PilotEligible(p model.Pilot, urgent bool) bool {
	if !urgent {
		return p.Status == model.PilotAvailable
	}
	return p.Status != model.PilotUnavailable && p.Status != model.PilotOnLeave
}

// PilotCost returns the daily rate multiplied by the mission duration.
func PilotCost(p model.Pilot, m model.Mission) float64 {
	return p.DailyRate * float64(missions.Duration(m))
}

// ScorePilot scores p against m. The boolean is false when a skill or
// certification gap discards the pilot outside urgent mode. The status
// gate is not applied here.
func ScorePilot(p model.Pilot, m model.Mission, urgent bool) (model.PilotMatch, bool) {
	res := model.PilotMatch{Pilot: p, Warnings: []string{}}

	if model.SameLocation(p.Location, m.Location) {
		res.Score += LocationBonus
	} else {
		res.Score += LocationPenalty
		res.Warnings = append(res.Warnings, fmt.Sprintf("Location mismatch: Pilot in %s, mission in %s", p.Location, m.Location))
	}

	if roster.HasRequiredSkills(p, m.RequiredSkills) {
		res.Score += SkillsBonus
	} else {
		if !urgent {
			return model.PilotMatch{}, false
		}
		res.Score += UrgentGapPenalty
		res.Warnings = append(res.Warnings, "Missing required skills: "+m.RequiredSkills.String())
	}

	if roster.HasRequiredCertifications(p, m.RequiredCerts) {
		res.Score += CertsBonus
	} else {
		if !urgent {
			return model.PilotMatch{}, false
		}
		res.Score += UrgentGapPenalty
		res.Warnings = append(res.Warnings, "Missing required certifications: "+m.RequiredCerts.String())
	}

	res.Cost = PilotCost(p, m)
	if res.Cost <= m.Budget {
		res.Score += BudgetBonus
	} else {
		res.Score += BudgetPenalty
		res.Warnings = append(res.Warnings, fmt.Sprintf("Budget overrun: Cost %s exceeds budget %s", model.FormatINR(res.Cost), model.FormatINR(m.Budget)))
	}

	if roster.AvailableBy(p, m.Start) {
		res.Score += AvailableBonus
	} else {
		res.Score += AvailablePenalty
		res.Warnings = append(res.Warnings, "Not available until "+model.DateOrUnknown(p.AvailableFrom))
	}
	return res, true
}

// RankPilots gates, scores and sorts pilots for m. Ties keep roster order.
func RankPilots(pilots []model.Pilot, m model.Mission, urgent bool) []model.PilotMatch {
	out := make([]model.PilotMatch, 0, len(pilots))
	for _, p := range pilots {
		if !PilotEligible(p, urgent) {
			continue
		}
		if res, ok := ScorePilot(p, m, urgent); ok {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// ScoreDrone scores d against m. The boolean is false when the drone
// cannot fly in the mission forecast. Availability is not checked here.
func ScoreDrone(d model.Drone, m model.Mission) (model.DroneMatch, bool) {
	if !fleet.CanOperate(d, m.Forecast) {
		return model.DroneMatch{}, false
	}
	res := model.DroneMatch{Drone: d, Warnings: []string{}}
	if model.SameLocation(d.Location, m.Location) {
		res.Score += LocationBonus
	} else {
		res.Score += LocationPenalty
		res.Warnings = append(res.Warnings, fmt.Sprintf("Location mismatch: Drone in %s, mission in %s", d.Location, m.Location))
	}
	res.Score += WeatherBonus
	// Every required token counts once per token, repeats included.
	res.Score += CapabilityBonus * d.Capabilities.CountMatches(m.RequiredSkills)
	return res, true
}

// RankDrones keeps available drones that can fly m and sorts them by score.
func RankDrones(drones []model.Drone, m model.Mission, now time.Time) []model.DroneMatch {
	out := make([]model.DroneMatch, 0, len(drones))
	for _, d := range drones {
		if !fleet.IsAvailable(d, now) {
			continue
		}
		if res, ok := ScoreDrone(d, m); ok {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

