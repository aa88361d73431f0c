// Package store defines the record store collaborator consumed by the
// matching, conflict and reassignment engines, together with an in-memory
// implementation.
//
// The store owns pilot, drone and mission records. The engines only ever
// read full snapshots and request single-field updates; they never hold
// records between calls.
package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/skyops/core/model"
)

// ErrNotFound is returned when an identifier does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrUnsupportedField is returned for writes the store cannot perform.
var ErrUnsupportedField = errors.New("unsupported field")

// Kind identifies a record collection.
type Kind string

const (
	KindPilot   Kind = "pilot"
	KindDrone   Kind = "drone"
	KindMission Kind = "mission"
)

// Field identifies a writable record field.
type Field string

const (
	FieldStatus     Field = "status"
	FieldAssignment Field = "assignment"
)

// Store reads full collections and updates single fields.
//
// Writing an active assignment also flips the record status: pilots become
// Assigned and drones Deployed.
type Store interface {
	Pilots(ctx context.Context) ([]model.Pilot, error)
	Drones(ctx context.Context) ([]model.Drone, error)
	Missions(ctx context.Context) ([]model.Mission, error)
	WriteField(ctx context.Context, kind Kind, id string, field Field, value string) error
}

// Snapshot is a consistent-at-read-time copy of all collections.
type Snapshot struct {
	Pilots   []model.Pilot
	Drones   []model.Drone
	Missions []model.Mission
}

// Load reads the three collections concurrently.
func Load(ctx context.Context, s Store) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Pilots(ctx)
		if err != nil {
			return fmt.Errorf("read pilots: %w", err)
		}
		snap.Pilots = p
		return nil
	})
	g.Go(func() error {
		d, err := s.Drones(ctx)
		if err != nil {
			return fmt.Errorf("read drones: %w", err)
		}
		snap.Drones = d
		return nil
	})
	g.Go(func() error {
		m, err := s.Missions(ctx)
		if err != nil {
			return fmt.Errorf("read missions: %w", err)
		}
		snap.Missions = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// FindMission returns the mission with the given id.
func FindMission(ctx context.Context, s Store, id string) (model.Mission, error) {
	missions, err := s.Missions(ctx)
	if err != nil {
		return model.Mission{}, fmt.Errorf("read missions: %w", err)
	}
	for _, m := range missions {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Mission{}, fmt.Errorf("mission %s: %w", id, ErrNotFound)
}
