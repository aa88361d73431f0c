package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/skyops/core/model"
)

// MemoryStore keeps records in ordered slices, one element per row. Rows
// sharing an identifier are kept as-is so duplicated bookings stay visible.
type MemoryStore struct {
	mu       sync.RWMutex
	pilots   []model.Pilot
	drones   []model.Drone
	missions []model.Mission
}

// NewMemoryStore copies the provided records into a new store.
func NewMemoryStore(pilots []model.Pilot, drones []model.Drone, missions []model.Mission) *MemoryStore {
	return &MemoryStore{
		pilots:   append([]model.Pilot(nil), pilots...),
		drones:   append([]model.Drone(nil), drones...),
		missions: append([]model.Mission(nil), missions...),
	}
}

func (s *MemoryStore) Pilots(context.Context) ([]model.Pilot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Pilot(nil), s.pilots...), nil
}

func (s *MemoryStore) Drones(context.Context) ([]model.Drone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Drone(nil), s.drones...), nil
}

func (s *MemoryStore) Missions(context.Context) ([]model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Mission(nil), s.missions...), nil
}

// Replace swaps all collections at once, e.g. after loading a seed file.
func (s *MemoryStore) Replace(snap Snapshot) {
	s.mu.Lock()
	s.pilots = append([]model.Pilot(nil), snap.Pilots...)
	s.drones = append([]model.Drone(nil), snap.Drones...)
	s.missions = append([]model.Mission(nil), snap.Missions...)
	s.mu.Unlock()
}

// WriteField updates every row carrying id.
func (s *MemoryStore) WriteField(_ context.Context, kind Kind, id string, field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case KindPilot:
		return s.writePilot(id, field, value)
	case KindDrone:
		return s.writeDrone(id, field, value)
	default:
		return fmt.Errorf("%s %s: %w", kind, field, ErrUnsupportedField)
	}
}

func (s *MemoryStore) writePilot(id string, field Field, value string) error {
	if field != FieldStatus && field != FieldAssignment {
		return fmt.Errorf("pilot %s: %w", field, ErrUnsupportedField)
	}
	found := false
	for i := range s.pilots {
		if s.pilots[i].ID != id {
			continue
		}
		found = true
		switch field {
		case FieldStatus:
			s.pilots[i].Status = model.PilotStatus(value)
		case FieldAssignment:
			s.pilots[i].CurrentAssignment = value
			if model.IsActiveAssignment(value) {
				s.pilots[i].Status = model.PilotAssigned
			}
		}
	}
	if !found {
		return fmt.Errorf("pilot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *MemoryStore) writeDrone(id string, field Field, value string) error {
	if field != FieldStatus && field != FieldAssignment {
		return fmt.Errorf("drone %s: %w", field, ErrUnsupportedField)
	}
	found := false
	for i := range s.drones {
		if s.drones[i].ID != id {
			continue
		}
		found = true
		switch field {
		case FieldStatus:
			s.drones[i].Status = model.DroneStatus(value)
		case FieldAssignment:
			s.drones[i].CurrentAssignment = value
			if model.IsActiveAssignment(value) {
				s.drones[i].Status = model.DroneDeployed
			}
		}
	}
	if !found {
		return fmt.Errorf("drone %s: %w", id, ErrNotFound)
	}
	return nil
}
