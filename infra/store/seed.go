package store

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	corestore "github.com/kilianp07/skyops/core/store"
)

// Seed is the on-disk layout of a seed file.
type Seed struct {
	Pilots   []PilotRecord   `yaml:"pilots"`
	Drones   []DroneRecord   `yaml:"drones"`
	Missions []MissionRecord `yaml:"missions"`
}

// DecodeSeed reads a YAML seed document.
func DecodeSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return s, nil
}

// LoadSeed reads the seed file at path.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeSeed(f)
}

// Snapshot coerces every row.
func (s Seed) Snapshot() corestore.Snapshot {
	var snap corestore.Snapshot
	for _, r := range s.Pilots {
		snap.Pilots = append(snap.Pilots, r.Pilot())
	}
	for _, r := range s.Drones {
		snap.Drones = append(snap.Drones, r.Drone())
	}
	for _, r := range s.Missions {
		snap.Missions = append(snap.Missions, r.Mission())
	}
	return snap
}
