package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSONLStoreAppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	s, err := NewJSONLStore(path, Rotation{MaxSizeMB: 1, MaxBackups: 2})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	at := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, Record{Time: at, Kind: KindStatus, PilotID: "P001", Status: "On Leave"}))
	require.NoError(t, s.Append(ctx, Record{Time: at.Add(time.Minute), Kind: KindAssignment, MissionID: "PRJ001", PilotID: "P003", DroneID: "D001"}))

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := s.Query(ctx, Query{EntityID: "D001"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "PRJ001", got[0].MissionID)
}

func TestJSONLStoreReadsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	old := Record{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Kind: KindReassignment, MissionID: "PRJ002"}
	b, err := json.Marshal(old)
	require.NoError(t, err)
	backup := filepath.Join(dir, "audit-2026-01-02T00-00-00.000.jsonl")
	require.NoError(t, os.WriteFile(backup, append(append(b, '\n'), []byte("not json\n")...), 0o644))

	s, err := NewJSONLStore(path, Rotation{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Append(context.Background(), Record{Time: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Kind: KindStatus, DroneID: "D002"}))

	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, KindReassignment, got[0].Kind)
	require.Equal(t, KindStatus, got[1].Kind)
}

func TestJSONLStoreEmptyPath(t *testing.T) {
	if _, err := NewJSONLStore("", Rotation{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestJSONLStoreQueryBeforeWrite(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"), Rotation{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Empty(t, got)
}
