package audit

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreaudit "github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/factory"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	s, err := New(factory.ModuleConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(factory.ModuleConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "a.jsonl"), "max_size_mb": "5"}})
	require.NoError(t, err)
	assert.IsType(t, &coreaudit.JSONLStore{}, s)
	require.NoError(t, s.Close())

	s, err = New(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "a.db")}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(factory.ModuleConfig{Type: "kafka"})
	if !errors.Is(err, factory.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	assert.Equal(t, []string{"jsonl", "sqlite"}, Types())
}
