package store

import (
	"context"
	"fmt"

	"github.com/kilianp07/skyops/core/factory"
	corestore "github.com/kilianp07/skyops/core/store"
)

// Conf holds the settings shared by the built-in backends.
type Conf struct {
	Path string `json:"path"`
	Seed string `json:"seed"`
}

var registry = factory.NewRegistry[corestore.Store]()

func init() {
	_ = Register("memory", newMemory)
	_ = Register("sqlite", newSQLite)
}

// Register adds a store backend factory.
func Register(name string, f factory.Factory[corestore.Store]) error {
	return registry.Register(name, f)
}

// Types lists the registered backend names.
func Types() []string { return registry.Names() }

// New builds the store described by cfg. An empty type means memory.
func New(cfg factory.ModuleConfig) (corestore.Store, error) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
	return registry.Create(cfg)
}

func newMemory(raw map[string]any) (corestore.Store, error) {
	var c Conf
	if err := factory.Decode(raw, &c); err != nil {
		return nil, err
	}
	s := corestore.NewMemoryStore(nil, nil, nil)
	if c.Seed != "" {
		seed, err := LoadSeed(c.Seed)
		if err != nil {
			return nil, fmt.Errorf("memory store seed: %w", err)
		}
		s.Replace(seed.Snapshot())
	}
	return s, nil
}

func newSQLite(raw map[string]any) (corestore.Store, error) {
	c := Conf{Path: "skyops.db"}
	if err := factory.Decode(raw, &c); err != nil {
		return nil, err
	}
	s, err := OpenSQLite(c.Path)
	if err != nil {
		return nil, err
	}
	if c.Seed == "" {
		return s, nil
	}
	if err := seedIfEmpty(context.Background(), s, c.Seed); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func seedIfEmpty(ctx context.Context, s *SQLiteStore, path string) error {
	empty, err := s.Empty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	seed, err := LoadSeed(path)
	if err != nil {
		return fmt.Errorf("sqlite store seed: %w", err)
	}
	return s.Import(ctx, seed)
}
