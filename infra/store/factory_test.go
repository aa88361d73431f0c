package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skyops/core/factory"
	corestore "github.com/kilianp07/skyops/core/store"
)

func TestNewMemoryStore(t *testing.T) {
	s, err := New(factory.ModuleConfig{Conf: map[string]any{"seed": "testdata/seed.yaml"}})
	require.NoError(t, err)
	_, ok := s.(*corestore.MemoryStore)
	require.True(t, ok, "empty type defaults to memory")
	pilots, err := s.Pilots(context.Background())
	require.NoError(t, err)
	assert.Len(t, pilots, 3)
}

func TestNewSQLiteStoreSeedsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyops.db")
	cfg := factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": path, "seed": "testdata/seed.yaml"}}

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.(io.Closer).Close())

	s, err = New(cfg)
	require.NoError(t, err)
	defer func() { _ = s.(io.Closer).Close() }()
	pilots, err := s.Pilots(context.Background())
	require.NoError(t, err)
	assert.Len(t, pilots, 3, "a populated database is not seeded again")
}

func TestNewStoreErrors(t *testing.T) {
	if _, err := New(factory.ModuleConfig{Type: "sheets"}); err == nil {
		t.Fatal("expected unknown type error")
	}
	if _, err := New(factory.ModuleConfig{Type: "memory", Conf: map[string]any{"seed": "testdata/missing.yaml"}}); err == nil {
		t.Fatal("expected missing seed error")
	}
	assert.Equal(t, []string{"memory", "sqlite"}, Types())
}
