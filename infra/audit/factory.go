package audit

import (
	coreaudit "github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/factory"
)

// Conf holds the settings of the built-in backends. Rotation fields only
// apply to jsonl.
type Conf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

var registry = factory.NewRegistry[coreaudit.LogStore]()

func init() {
	_ = Register("jsonl", newJSONL)
	_ = Register("sqlite", newSQLite)
}

// Register adds an audit backend factory.
func Register(name string, f factory.Factory[coreaudit.LogStore]) error {
	return registry.Register(name, f)
}

// Types lists the registered backend names.
func Types() []string { return registry.Names() }

// New builds the audit store described by cfg. An empty type or "none"
// disables auditing and returns a nil store.
func New(cfg factory.ModuleConfig) (coreaudit.LogStore, error) {
	if cfg.Type == "" || cfg.Type == "none" {
		return nil, nil
	}
	return registry.Create(cfg)
}

func newJSONL(raw map[string]any) (coreaudit.LogStore, error) {
	c := Conf{Path: "audit.jsonl"}
	if err := factory.Decode(raw, &c); err != nil {
		return nil, err
	}
	s, err := coreaudit.NewJSONLStore(c.Path, coreaudit.Rotation{
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newSQLite(raw map[string]any) (coreaudit.LogStore, error) {
	c := Conf{Path: "audit.db"}
	if err := factory.Decode(raw, &c); err != nil {
		return nil, err
	}
	s, err := OpenSQLite(c.Path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
