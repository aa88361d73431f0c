package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skyops/core/conflicts"
	"github.com/kilianp07/skyops/core/matching"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/store"
	"github.com/kilianp07/skyops/core/urgent"
	"github.com/kilianp07/skyops/internal/fixtures"
)

type recordMonitor struct{ errs []error }

func (m *recordMonitor) CaptureException(err error, _ map[string]string) { m.errs = append(m.errs, err) }
func (m *recordMonitor) Recover()                                         {}
func (m *recordMonitor) Flush(time.Duration)                              {}

type brokenStore struct {
	*store.MemoryStore
	failDrones bool
	failPilots bool
}

func (b brokenStore) Pilots(ctx context.Context) ([]model.Pilot, error) {
	if b.failPilots {
		return nil, errors.New("sheet unavailable")
	}
	return b.MemoryStore.Pilots(ctx)
}

func (b brokenStore) WriteField(ctx context.Context, kind store.Kind, id string, field store.Field, value string) error {
	if b.failDrones && kind == store.KindDrone {
		return errors.New("write failed")
	}
	return b.MemoryStore.WriteField(ctx, kind, id, field, value)
}

func newTestServer(t *testing.T, s store.Store, token string) (http.Handler, *recordMonitor) {
	t.Helper()
	engine := matching.NewEngine(s, nil, nil)
	engine.SetClock(fixtures.Clock)
	det := conflicts.NewDetector(s, nil, nil)
	det.SetClock(fixtures.Clock)
	mon := &recordMonitor{}
	srv := NewServer(Deps{
		Engine:   engine,
		Detector: det,
		Ranker:   urgent.NewRanker(engine, nil, nil),
		Monitor:  mon,
		Token:    token,
	})
	return srv.Router(), mon
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "tok")
	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "tok")
	rr := do(t, h, http.MethodGet, "/api/pilots", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/pilots", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListPilotsFilter(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/pilots?location=bangalore", "")
	require.Equal(t, http.StatusOK, rr.Code)
	pilots := decodeBody[[]model.Pilot](t, rr)
	require.Len(t, pilots, 2)
	assert.Equal(t, "P001", pilots[0].ID)
	assert.Equal(t, "P004", pilots[1].ID)
}

func TestListDronesRejectsBadBool(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/drones?weather_resistant=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody[errorBody](t, rr).Error, "weather_resistant")
}

func TestListMissionsRejectsBadDate(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/missions?start_date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMatchDronesUnknownMission(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/missions/PRJ404/drones", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMatchPilotsUrgent(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/missions/PRJ001/pilots?urgent=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	matches := decodeBody[[]model.PilotMatch](t, rr)
	require.NotEmpty(t, matches)
	assert.Equal(t, "P001", matches[0].Pilot.ID)
}

func TestPilotCost(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/pilots/P001/cost", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/pilots/P001/cost?mission_id=PRJ001", "")
	require.Equal(t, http.StatusOK, rr.Code)
	c := decodeBody[model.PilotCost](t, rr)
	assert.Equal(t, 4500.0, c.TotalCost)
	assert.Equal(t, 3, c.Duration)
}

func TestUpdatePilotStatus(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodPut, "/api/pilots/P001/status", `{"status":"Flying"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/pilots/P001/status", `{"status":"on leave"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.PilotOnLeave, decodeBody[model.Pilot](t, rr).Status)

	rr = do(t, h, http.MethodPut, "/api/pilots/P999/status", `{"status":"Available"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateDroneStatusRejectsUnknownField(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodPut, "/api/drones/D001/status", `{"state":"Maintenance"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateAssignment(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodPost, "/api/assignments", `{"pilot_id":"P001"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/assignments", `{"pilot_id":"P001","drone_id":"D001","mission_id":"PRJ001"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	a := decodeBody[model.Assignment](t, rr)
	assert.Equal(t, "Successfully assigned P001 and D001 to PRJ001", a.Message)

	rr = do(t, h, http.MethodGet, "/api/pilots/P001/assignment", "")
	require.Equal(t, http.StatusOK, rr.Code)
	active := decodeBody[model.ActiveAssignment](t, rr)
	require.NotNil(t, active.Mission)
	assert.Equal(t, "PRJ001", active.Mission.ID)
}

func TestCreateAssignmentPartial(t *testing.T) {
	h, mon := newTestServer(t, brokenStore{MemoryStore: fixtures.Store(), failDrones: true}, "")
	rr := do(t, h, http.MethodPost, "/api/assignments", `{"pilot_id":"P001","drone_id":"D001","mission_id":"PRJ001"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Len(t, mon.errs, 1)
}

func TestStoreFailureReported(t *testing.T) {
	h, mon := newTestServer(t, brokenStore{MemoryStore: fixtures.Store(), failPilots: true}, "")
	rr := do(t, h, http.MethodGet, "/api/pilots", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Len(t, mon.errs, 1)
	assert.Contains(t, mon.errs[0].Error(), "sheet unavailable")
}

func TestConflicts(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/conflicts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	_ = decodeBody[[]model.Conflict](t, rr)

	rr = do(t, h, http.MethodGet, "/api/conflicts?start_date=2026-02-30", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUrgentReassign(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodPost, "/api/missions/PRJ001/urgent", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/missions/PRJ001/urgent", `{"reason":"pilot sick"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeBody[urgent.Result](t, rr)
	require.NotEmpty(t, res.Options)
	assert.Equal(t, 250, res.Options[0].FeasibilityScore)
	assert.Contains(t, res.Recommendation, "PRJ001")
}

func TestReplacements(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/missions/PRJ001/replacements/pilots?exclude=P001", "")
	require.Equal(t, http.StatusOK, rr.Code)
	for _, o := range decodeBody[[]model.ReassignmentOption](t, rr) {
		require.NotNil(t, o.Pilot)
		assert.NotEqual(t, "P001", o.Pilot.ID)
	}

	rr = do(t, h, http.MethodGet, "/api/missions/PRJ001/replacements/drones?exclude=D001", "")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMaintenance(t *testing.T) {
	h, _ := newTestServer(t, fixtures.Store(), "")
	rr := do(t, h, http.MethodGet, "/api/drones/maintenance", "")
	require.Equal(t, http.StatusOK, rr.Code)
	ids := []string{}
	for _, d := range decodeBody[[]model.Drone](t, rr) {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, "D002")
}
