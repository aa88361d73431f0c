package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `store:
  type: sqlite
  conf:
    path: skyops.db
    seed: data/seed.yaml
api:
  addr: ":9090"
metrics:
  sinks:
    - type: prometheus
      conf:
        prometheus_port: ":9200"
mqtt:
  enabled: true
  broker: "tcp://broker:1883"
  client_id: "coordinator"
  topic_prefix: "ops"
  qos: 1
logging:
  level: debug
sentry:
  dsn: "https://public@sentry.example.com/1"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"store.type", cfg.Store.Type, "sqlite"},
		{"store.path", cfg.Store.Conf["path"], "skyops.db"},
		{"api.addr", cfg.API.Addr, ":9090"},
		{"api.shutdown", cfg.API.ShutdownSeconds, 5},
		{"metrics", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "prometheus", true},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://broker:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "coordinator"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "ops"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"sentry.dsn", cfg.Sentry.DSN, "https://public@sentry.example.com/1"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, "skyops", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_API__ADDR", ":7070")
	t.Setenv("K_LOGGING__LEVEL", "warn")
	cfg, err := Load(writeConfig(t, "config.yaml", "api:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.API.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", ""))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "logging")

	_, err = Load(writeConfig(t, "config.yaml", "mqtt:\n  enabled: true\n  qos: 3\n"))
	assert.ErrorContains(t, err, "mqtt")

	_, err = Load(writeConfig(t, "config.yaml", "metrics:\n  sinks:\n    - conf: {}\n"))
	assert.ErrorContains(t, err, "metrics")

	_, err = Load(writeConfig(t, "config.yaml", "sentry:\n  traces_sample_rate: 2\n"))
	assert.ErrorContains(t, err, "sentry")
}

func TestLoadAuditAndSentry(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", "audit:\n  type: sqlite\n  conf:\n    path: audit.db\nsentry:\n  dsn: https://k@sentry.example.com/1\n"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Audit.Type)
	assert.Equal(t, "audit.db", cfg.Audit.Conf["path"])
	assert.Equal(t, "production", cfg.Sentry.Environment)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "memory", cfg.Store.Type)
}
