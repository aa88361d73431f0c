package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skyops/config"
	"github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/conflicts"
	"github.com/kilianp07/skyops/core/factory"
)

func seedPath(t *testing.T) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "infra", "store", "testdata", "seed.yaml"))
	require.NoError(t, err)
	return p
}

func TestNewMemoryService(t *testing.T) {
	cfg := config.Default()
	cfg.Store = factory.ModuleConfig{Type: "memory", Conf: map[string]any{"seed": seedPath(t)}}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/pilots", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "P001")
}

func TestNewSQLiteService(t *testing.T) {
	cfg := config.Default()
	cfg.Store = factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{
		"path": filepath.Join(t.TempDir(), "skyops.db"),
		"seed": seedPath(t),
	}}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	_, err = svc.Detector.Detect(ctx, conflicts.Filter{})
	require.NoError(t, err)
}

func TestAssignmentIsAudited(t *testing.T) {
	cfg := config.Default()
	cfg.Store = factory.ModuleConfig{Type: "memory", Conf: map[string]any{"seed": seedPath(t)}}
	cfg.Audit = factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(t.TempDir(), "audit.jsonl")}}
	svc, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, svc.Audit)
	svc.Start(context.Background())

	_, err = svc.Engine.CreateAssignment(context.Background(), "P001", "D001", "PRJ001")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		recs, err := svc.Audit.Query(context.Background(), audit.Query{Kind: audit.KindAssignment})
		return err == nil && len(recs) == 1 && recs[0].MissionID == "PRJ001"
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, svc.Close())
}

func TestNewUnknownStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Type = "sheets"
	_, err := New(cfg)
	assert.ErrorIs(t, err, factory.ErrUnknownType)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.API.Addr = "127.0.0.1:0"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}
