// Package conflicts audits the current assignment state and reports
// double bookings, requirement gaps, budget overruns, weather risks and
// location mismatches.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/fleet"
	"github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/missions"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
	"github.com/kilianp07/skyops/core/store"
)

// Filter narrows the scan. Zero fields are unconstrained. A date window
// applies only when both dates are set and then replaces MissionID.
type Filter struct {
	PilotID   string    `json:"pilot_id,omitempty"`
	DroneID   string    `json:"drone_id,omitempty"`
	MissionID string    `json:"mission_id,omitempty"`
	StartDate time.Time `json:"start_date,omitempty"`
	EndDate   time.Time `json:"end_date,omitempty"`
}

func (f Filter) hasWindow() bool { return !f.StartDate.IsZero() && !f.EndDate.IsZero() }

func (f Filter) scopesMissions() bool { return f.MissionID != "" || f.hasWindow() }

// Detector runs conflict scans against a store.
type Detector struct {
	store store.Store
	log   logger.Logger
	bus   events.Publisher
	now   func() time.Time
}

// NewDetector returns a Detector reading from s. log and bus may be nil.
func NewDetector(s store.Store, log logger.Logger, bus events.Publisher) *Detector {
	return &Detector{store: s, log: logger.OrNop(log), bus: events.OrNop(bus), now: time.Now}
}

// SetClock overrides the event timestamp source.
func (d *Detector) SetClock(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// Detect reads a fresh snapshot and scans it.
func (d *Detector) Detect(ctx context.Context, f Filter) ([]model.Conflict, error) {
	snap, err := store.Load(ctx, d.store)
	if err != nil {
		return nil, err
	}
	res := Scan(snap, f)
	d.log.Debugw("conflict scan", map[string]any{
		"pilots": len(snap.Pilots), "drones": len(snap.Drones), "missions": len(snap.Missions), "conflicts": len(res),
	})
	d.bus.Publish(events.ConflictsEvent{Conflicts: res, Time: d.now()})
	return res, nil
}

// scope holds the populations of one scan.
type scope struct {
	pilots    []model.Pilot // filtered
	drones    []model.Drone // filtered
	allPilots []model.Pilot
	allDrones []model.Drone
	missions  []model.Mission // full set, used for lookups
	inScope   map[string]bool // nil when missions are unfiltered
}

// mission resolves an active assignment to a known in-scope mission.
func (s scope) mission(assignment string) (model.Mission, bool) {
	if !model.IsActiveAssignment(assignment) {
		return model.Mission{}, false
	}
	m, ok := missions.Find(s.missions, assignment)
	if !ok {
		return model.Mission{}, false
	}
	if s.inScope != nil && !s.inScope[m.ID] {
		return model.Mission{}, false
	}
	return m, true
}

// Scan runs every pass over snap and concatenates the results in pass
// order: double booking, skill and certification, budget, weather,
// location.
func Scan(snap store.Snapshot, f Filter) []model.Conflict {
	s := scope{
		pilots:    snap.Pilots,
		drones:    snap.Drones,
		allPilots: snap.Pilots,
		allDrones: snap.Drones,
		missions:  snap.Missions,
	}
	if f.PilotID != "" {
		s.pilots = pilotsByID(snap.Pilots, f.PilotID)
	}
	if f.DroneID != "" {
		s.drones = dronesByID(snap.Drones, f.DroneID)
	}
	if f.scopesMissions() {
		var ms []model.Mission
		if f.hasWindow() {
			ms = missions.InDateRange(snap.Missions, f.StartDate, f.EndDate)
		} else if m, ok := missions.Find(snap.Missions, f.MissionID); ok {
			ms = []model.Mission{m}
		}
		s.inScope = make(map[string]bool, len(ms))
		for _, m := range ms {
			s.inScope[m.ID] = true
		}
	}

	out := make([]model.Conflict, 0)
	out = append(out, doubleBookings(s)...)
	out = append(out, requirementGaps(s)...)
	out = append(out, budgetOverruns(s)...)
	out = append(out, weatherRisks(s)...)
	out = append(out, locationMismatches(s)...)
	return out
}

func pilotsByID(pilots []model.Pilot, id string) []model.Pilot {
	out := make([]model.Pilot, 0, 1)
	for _, p := range pilots {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return out
}

func dronesByID(drones []model.Drone, id string) []model.Drone {
	out := make([]model.Drone, 0, 1)
	for _, d := range drones {
		if d.ID == id {
			out = append(out, d)
		}
	}
	return out
}

// doubleBookings reports, for each filtered entity row assigned to M1,
// every other known mission M2 overlapping M1 that some row with the same
// id in the full population is assigned to. Each M2 is reported once per
// row.
func doubleBookings(s scope) []model.Conflict {
	out := make([]model.Conflict, 0)
	for _, p := range s.pilots {
		m1, ok := s.mission(p.CurrentAssignment)
		if !ok {
			continue
		}
		for _, m2 := range s.missions {
			if m2.ID == m1.ID || !missions.MissionsOverlap(m1, m2) {
				continue
			}
			if !pilotHolds(s.allPilots, p.ID, m2.ID) {
				continue
			}
			out = append(out, model.Conflict{
				Kind:      model.ConflictDoubleBooking,
				Severity:  model.SeverityHigh,
				Message:   fmt.Sprintf("Pilot %s is double-booked for overlapping missions %s and %s", p.ID, m1.ID, m2.ID),
				EntityID:  p.ID,
				MissionID: m1.ID,
			})
		}
	}
	for _, d := range s.drones {
		m1, ok := s.mission(d.CurrentAssignment)
		if !ok {
			continue
		}
		for _, m2 := range s.missions {
			if m2.ID == m1.ID || !missions.MissionsOverlap(m1, m2) {
				continue
			}
			if !droneHolds(s.allDrones, d.ID, m2.ID) {
				continue
			}
			out = append(out, model.Conflict{
				Kind:      model.ConflictDoubleBooking,
				Severity:  model.SeverityHigh,
				Message:   fmt.Sprintf("Drone %s is double-booked for overlapping missions %s and %s", d.ID, m1.ID, m2.ID),
				EntityID:  d.ID,
				MissionID: m1.ID,
			})
		}
	}
	return out
}

func pilotHolds(pilots []model.Pilot, id, missionID string) bool {
	for _, p := range pilots {
		if p.ID == id && p.CurrentAssignment == missionID {
			return true
		}
	}
	return false
}

func droneHolds(drones []model.Drone, id, missionID string) bool {
	for _, d := range drones {
		if d.ID == id && d.CurrentAssignment == missionID {
			return true
		}
	}
	return false
}

func requirementGaps(s scope) []model.Conflict {
	out := make([]model.Conflict, 0)
	for _, p := range s.pilots {
		m, ok := s.mission(p.CurrentAssignment)
		if !ok {
			continue
		}
		if !roster.HasRequiredSkills(p, m.RequiredSkills) {
			out = append(out, model.Conflict{
				Kind:      model.ConflictSkillMismatch,
				Severity:  model.SeverityHigh,
				Message:   fmt.Sprintf("Pilot %s lacks required skills for mission %s. Required: %s, Has: %s", p.ID, m.ID, m.RequiredSkills, p.Skills),
				EntityID:  p.ID,
				MissionID: m.ID,
			})
		}
		if !roster.HasRequiredCertifications(p, m.RequiredCerts) {
			out = append(out, model.Conflict{
				Kind:      model.ConflictCertMismatch,
				Severity:  model.SeverityHigh,
				Message:   fmt.Sprintf("Pilot %s lacks required certifications for mission %s. Required: %s, Has: %s", p.ID, m.ID, m.RequiredCerts, p.Certifications),
				EntityID:  p.ID,
				MissionID: m.ID,
			})
		}
	}
	return out
}

func budgetOverruns(s scope) []model.Conflict {
	out := make([]model.Conflict, 0)
	for _, p := range s.pilots {
		m, ok := s.mission(p.CurrentAssignment)
		if !ok {
			continue
		}
		if cost := p.DailyRate * float64(missions.Duration(m)); cost > m.Budget {
			out = append(out, model.Conflict{
				Kind:      model.ConflictBudgetOverrun,
				Severity:  model.SeverityMedium,
				Message:   fmt.Sprintf("Mission %s budget overrun. Pilot %s cost %s exceeds budget %s", m.ID, p.ID, model.FormatINR(cost), model.FormatINR(m.Budget)),
				EntityID:  p.ID,
				MissionID: m.ID,
			})
		}
	}
	return out
}

func weatherRisks(s scope) []model.Conflict {
	out := make([]model.Conflict, 0)
	for _, d := range s.drones {
		m, ok := s.mission(d.CurrentAssignment)
		if !ok {
			continue
		}
		if !fleet.CanOperate(d, m.Forecast) {
			out = append(out, model.Conflict{
				Kind:      model.ConflictWeatherRisk,
				Severity:  model.SeverityHigh,
				Message:   fmt.Sprintf("Drone %s (%s) cannot operate in %s conditions for mission %s", d.ID, d.WeatherResistance, m.Forecast, m.ID),
				EntityID:  d.ID,
				MissionID: m.ID,
			})
		}
	}
	return out
}

func locationMismatches(s scope) []model.Conflict {
	out := make([]model.Conflict, 0)
	for _, p := range s.pilots {
		m, ok := s.mission(p.CurrentAssignment)
		if !ok || model.SameLocation(p.Location, m.Location) {
			continue
		}
		out = append(out, model.Conflict{
			Kind:      model.ConflictLocationMismatch,
			Severity:  model.SeverityLow,
			Message:   fmt.Sprintf("Pilot %s in %s but mission %s is in %s", p.ID, p.Location, m.ID, m.Location),
			EntityID:  p.ID,
			MissionID: m.ID,
		})
	}
	for _, d := range s.drones {
		m, ok := s.mission(d.CurrentAssignment)
		if !ok || model.SameLocation(d.Location, m.Location) {
			continue
		}
		out = append(out, model.Conflict{
			Kind:      model.ConflictLocationMismatch,
			Severity:  model.SeverityLow,
			Message:   fmt.Sprintf("Drone %s in %s but mission %s is in %s", d.ID, d.Location, m.ID, m.Location),
			EntityID:  d.ID,
			MissionID: m.ID,
		})
	}
	return out
}
