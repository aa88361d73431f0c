// Package matching ranks pilots and drones against missions and applies
// assignment and status changes through the record store.
package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/fleet"
	"github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/missions"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
	"github.com/kilianp07/skyops/core/store"
)

var (
	// ErrNotFound is returned for unknown pilot, drone or mission ids.
	ErrNotFound = store.ErrNotFound
	// ErrPartialAssignment is returned when the pilot was written but the
	// drone write failed. The pilot write is not rolled back.
	ErrPartialAssignment = errors.New("partial assignment")
	// ErrInvalidStatus is returned for a status outside the entity's set.
	ErrInvalidStatus = errors.New("invalid status")
)

// Engine answers match, cost and assignment requests from fresh store reads.
type Engine struct {
	store store.Store
	log   logger.Logger
	bus   events.Publisher
	now   func() time.Time
	newID func() string
}

// NewEngine returns an Engine reading from s. log and bus may be nil.
func NewEngine(s store.Store, log logger.Logger, bus events.Publisher) *Engine {
	return &Engine{
		store: s,
		log:   logger.OrNop(log),
		bus:   events.OrNop(bus),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetClock overrides the time source used for maintenance checks and
// event timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// SetIDGenerator overrides the assignment id generator.
func (e *Engine) SetIDGenerator(f func() string) {
	if f != nil {
		e.newID = f
	}
}

// Mission returns the mission with the given id.
func (e *Engine) Mission(ctx context.Context, id string) (model.Mission, error) {
	return store.FindMission(ctx, e.store, id)
}

// MatchPilots ranks pilots for the mission, best first.
func (e *Engine) MatchPilots(ctx context.Context, missionID string, urgent bool) ([]model.PilotMatch, error) {
	m, err := e.Mission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	pilots, err := e.store.Pilots(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pilots: %w", err)
	}
	res := RankPilots(pilots, m, urgent)
	e.log.Debugw("pilots matched", map[string]any{
		"mission": missionID, "urgent": urgent, "roster": len(pilots), "candidates": len(res),
	})
	ev := events.MatchEvent{MissionID: missionID, Subject: "pilot", Urgent: urgent, Candidates: len(res), Time: e.now()}
	if len(res) > 0 {
		ev.TopScore = res[0].Score
	}
	e.bus.Publish(ev)
	return res, nil
}

// MatchDrones ranks available drones for the mission, best first.
func (e *Engine) MatchDrones(ctx context.Context, missionID string) ([]model.DroneMatch, error) {
	m, err := e.Mission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	drones, err := e.store.Drones(ctx)
	if err != nil {
		return nil, fmt.Errorf("read drones: %w", err)
	}
	now := e.now()
	res := RankDrones(drones, m, now)
	e.log.Debugw("drones matched", map[string]any{
		"mission": missionID, "fleet": len(drones), "candidates": len(res),
	})
	ev := events.MatchEvent{MissionID: missionID, Subject: "drone", Candidates: len(res), Time: now}
	if len(res) > 0 {
		ev.TopScore = res[0].Score
	}
	e.bus.Publish(ev)
	return res, nil
}

// PilotCost prices the mission for one pilot.
func (e *Engine) PilotCost(ctx context.Context, pilotID, missionID string) (model.PilotCost, error) {
	m, err := e.Mission(ctx, missionID)
	if err != nil {
		return model.PilotCost{}, err
	}
	p, err := e.pilot(ctx, pilotID)
	if err != nil {
		return model.PilotCost{}, err
	}
	return model.PilotCost{
		Pilot:     p,
		Mission:   m,
		TotalCost: PilotCost(p, m),
		Duration:  missions.Duration(m),
	}, nil
}

// CreateAssignment writes the mission id to the pilot and then to the
// drone. Eligibility is not re-checked. When the drone write fails the
// returned error wraps ErrPartialAssignment and the pilot keeps the mission.
func (e *Engine) CreateAssignment(ctx context.Context, pilotID, droneID, missionID string) (model.Assignment, error) {
	if _, err := e.Mission(ctx, missionID); err != nil {
		return model.Assignment{}, err
	}
	a := model.Assignment{
		ID:         e.newID(),
		PilotID:    pilotID,
		DroneID:    droneID,
		MissionID:  missionID,
		AssignedAt: e.now(),
	}
	if err := e.store.WriteField(ctx, store.KindPilot, pilotID, store.FieldAssignment, missionID); err != nil {
		err = fmt.Errorf("assign pilot %s: %w", pilotID, err)
		e.publishAssignment(a, err)
		return model.Assignment{}, err
	}
	if err := e.store.WriteField(ctx, store.KindDrone, droneID, store.FieldAssignment, missionID); err != nil {
		err = fmt.Errorf("assign drone %s after pilot %s: %w: %w", droneID, pilotID, ErrPartialAssignment, err)
		e.log.Warnf("mission %s left half assigned: %v", missionID, err)
		e.publishAssignment(a, err)
		return model.Assignment{}, err
	}
	a.Message = fmt.Sprintf("Successfully assigned %s and %s to %s", pilotID, droneID, missionID)
	e.log.Infof("%s", a.Message)
	e.publishAssignment(a, nil)
	return a, nil
}

func (e *Engine) publishAssignment(a model.Assignment, err error) {
	e.bus.Publish(events.AssignmentEvent{Assignment: a, Err: err, Time: e.now()})
}

// UpdatePilotStatus validates and writes a pilot status, returning the
// updated record.
func (e *Engine) UpdatePilotStatus(ctx context.Context, id, status string) (model.Pilot, error) {
	st, ok := model.ParsePilotStatus(status)
	if !ok {
		return model.Pilot{}, fmt.Errorf("pilot status %q: %w", status, ErrInvalidStatus)
	}
	if err := e.store.WriteField(ctx, store.KindPilot, id, store.FieldStatus, string(st)); err != nil {
		return model.Pilot{}, fmt.Errorf("update pilot %s: %w", id, err)
	}
	e.bus.Publish(events.StatusEvent{Kind: string(store.KindPilot), ID: id, Status: string(st), Time: e.now()})
	return e.pilot(ctx, id)
}

// UpdateDroneStatus validates and writes a drone status, returning the
// updated record.
func (e *Engine) UpdateDroneStatus(ctx context.Context, id, status string) (model.Drone, error) {
	st, ok := model.ParseDroneStatus(status)
	if !ok {
		return model.Drone{}, fmt.Errorf("drone status %q: %w", status, ErrInvalidStatus)
	}
	if err := e.store.WriteField(ctx, store.KindDrone, id, store.FieldStatus, string(st)); err != nil {
		return model.Drone{}, fmt.Errorf("update drone %s: %w", id, err)
	}
	e.bus.Publish(events.StatusEvent{Kind: string(store.KindDrone), ID: id, Status: string(st), Time: e.now()})
	return e.drone(ctx, id)
}

// PilotAssignment returns the pilot with its current mission, if any.
func (e *Engine) PilotAssignment(ctx context.Context, id string) (model.ActiveAssignment, error) {
	snap, err := store.Load(ctx, e.store)
	if err != nil {
		return model.ActiveAssignment{}, err
	}
	p, ok := roster.Find(snap.Pilots, id)
	if !ok {
		return model.ActiveAssignment{}, fmt.Errorf("pilot %s: %w", id, ErrNotFound)
	}
	return join(p, snap), nil
}

// DroneAssignment returns the drone with its current mission, if any.
func (e *Engine) DroneAssignment(ctx context.Context, id string) (model.DroneAssignment, error) {
	snap, err := store.Load(ctx, e.store)
	if err != nil {
		return model.DroneAssignment{}, err
	}
	d, ok := fleet.Find(snap.Drones, id)
	if !ok {
		return model.DroneAssignment{}, fmt.Errorf("drone %s: %w", id, ErrNotFound)
	}
	res := model.DroneAssignment{Drone: d}
	if d.HasAssignment() {
		if m, ok := missions.Find(snap.Missions, d.CurrentAssignment); ok {
			res.Mission = &m
		}
	}
	return res, nil
}

// ActiveAssignments lists every assigned pilot with its mission and the
// first drone carrying the same assignment.
func (e *Engine) ActiveAssignments(ctx context.Context) ([]model.ActiveAssignment, error) {
	snap, err := store.Load(ctx, e.store)
	if err != nil {
		return nil, err
	}
	out := make([]model.ActiveAssignment, 0)
	for _, p := range snap.Pilots {
		if p.HasAssignment() {
			out = append(out, join(p, snap))
		}
	}
	return out, nil
}

func join(p model.Pilot, snap store.Snapshot) model.ActiveAssignment {
	res := model.ActiveAssignment{Pilot: p}
	if !p.HasAssignment() {
		return res
	}
	if m, ok := missions.Find(snap.Missions, p.CurrentAssignment); ok {
		res.Mission = &m
	}
	for _, d := range snap.Drones {
		if d.CurrentAssignment == p.CurrentAssignment {
			res.Drone = &d
			break
		}
	}
	return res
}

// Pilots returns the roster filtered by f.
func (e *Engine) Pilots(ctx context.Context, f roster.Filter) ([]model.Pilot, error) {
	pilots, err := e.store.Pilots(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pilots: %w", err)
	}
	return roster.Query(pilots, f), nil
}

// Drones returns the fleet filtered by f.
func (e *Engine) Drones(ctx context.Context, f fleet.Filter) ([]model.Drone, error) {
	drones, err := e.store.Drones(ctx)
	if err != nil {
		return nil, fmt.Errorf("read drones: %w", err)
	}
	return fleet.Query(drones, f), nil
}

// Missions returns the missions filtered by f.
func (e *Engine) Missions(ctx context.Context, f missions.Filter) ([]model.Mission, error) {
	ms, err := e.store.Missions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read missions: %w", err)
	}
	return missions.Query(ms, f), nil
}

// DronesNeedingMaintenance returns drones in service or due within a week.
func (e *Engine) DronesNeedingMaintenance(ctx context.Context) ([]model.Drone, error) {
	drones, err := e.store.Drones(ctx)
	if err != nil {
		return nil, fmt.Errorf("read drones: %w", err)
	}
	return fleet.NeedingMaintenance(drones, e.now()), nil
}

func (e *Engine) pilot(ctx context.Context, id string) (model.Pilot, error) {
	pilots, err := e.store.Pilots(ctx)
	if err != nil {
		return model.Pilot{}, fmt.Errorf("read pilots: %w", err)
	}
	p, ok := roster.Find(pilots, id)
	if !ok {
		return model.Pilot{}, fmt.Errorf("pilot %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (e *Engine) drone(ctx context.Context, id string) (model.Drone, error) {
	drones, err := e.store.Drones(ctx)
	if err != nil {
		return model.Drone{}, fmt.Errorf("read drones: %w", err)
	}
	d, ok := fleet.Find(drones, id)
	if !ok {
		return model.Drone{}, fmt.Errorf("drone %s: %w", id, ErrNotFound)
	}
	return d, nil
}
