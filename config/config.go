package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/skyops/core/factory"
	"github.com/kilianp07/skyops/core/metrics"
)

// EnvPrefix marks environment overrides, e.g. K_API__ADDR=":9090".
const EnvPrefix = "K_"

type Config struct {
	Store   factory.ModuleConfig `json:"store"`
	API     APIConfig            `json:"api"`
	Metrics metrics.Config       `json:"metrics"`
	MQTT    MQTTConfig           `json:"mqtt"`
	Logging LoggingConfig        `json:"logging"`
	Sentry  SentryConfig         `json:"sentry"`
	// Audit selects the history backend, "jsonl" or "sqlite". Empty disables it.
	Audit factory.ModuleConfig `json:"audit"`
}

// Load reads path (YAML or JSON), applies environment overrides and
// defaults, then validates every section. An empty path loads the
// environment alone.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration for the in-memory store.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

func (c *Config) SetDefaults() {
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	c.API.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
}

func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics: sink %d has no type", i)
		}
	}
	return nil
}
