package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/matching"
	"github.com/kilianp07/skyops/core/model"
	coremqtt "github.com/kilianp07/skyops/core/mqtt"
	"github.com/kilianp07/skyops/core/store"
	"github.com/kilianp07/skyops/internal/eventbus"
	"github.com/kilianp07/skyops/internal/fixtures"
)

type message struct {
	topic   string
	payload []byte
}

type recorder struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (r *recorder) Publish(topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, message{topic, payload})
	return nil
}

func (r *recorder) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.topic
	}
	return out
}

var at = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func TestNotifierAssignment(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "skyops/", nil)
	n.newID = func() string { return "msg-1" }

	err := n.Handle(events.AssignmentEvent{
		Assignment: model.Assignment{ID: "a1", PilotID: "P001", DroneID: "D001", MissionID: "PRJ001"},
		Time:       at,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"skyops/pilots/P001/assignment", "skyops/drones/D001/assignment"}, rec.topics())

	var notice AssignmentNotice
	require.NoError(t, json.Unmarshal(rec.msgs[0].payload, &notice))
	assert.Equal(t, AssignmentNotice{
		MessageID: "msg-1", AssignmentID: "a1", MissionID: "PRJ001",
		PilotID: "P001", DroneID: "D001", Timestamp: at.UnixMilli(),
	}, notice)
}

func TestNotifierPartialAssignmentSkipsDrone(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "skyops", nil)
	err := n.Handle(events.AssignmentEvent{
		Assignment: model.Assignment{PilotID: "P001", DroneID: "D001", MissionID: "PRJ001"},
		Err:        fmt.Errorf("assign drone D001: %w: %w", matching.ErrPartialAssignment, errors.New("drone write failed")),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"skyops/pilots/P001/assignment"}, rec.topics())
	assert.Contains(t, string(rec.msgs[0].payload), `"partial":true`)
}

func TestNotifierStatus(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "", nil)
	require.NoError(t, n.Handle(events.StatusEvent{Kind: "drone", ID: "D002", Status: "Maintenance", Time: at}))
	assert.Equal(t, []string{"drones/D002/status"}, rec.topics())

	var notice StatusNotice
	require.NoError(t, json.Unmarshal(rec.msgs[0].payload, &notice))
	assert.Equal(t, "Maintenance", notice.Status)
	assert.NotEmpty(t, notice.MessageID)
}

func TestNotifierIgnoresOtherEvents(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "skyops", nil)
	require.NoError(t, n.Handle(events.ConflictsEvent{}))
	assert.Empty(t, rec.topics())
}

func TestNotifierPublishError(t *testing.T) {
	n := NewNotifier(&recorder{err: coremqtt.ErrNotConnected}, "skyops", nil)
	err := n.Handle(events.StatusEvent{Kind: "pilot", ID: "P001", Status: "On Leave"})
	assert.ErrorIs(t, err, coremqtt.ErrNotConnected)
}

func TestNotifierStartConsumesBus(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewNotifier(rec, "skyops", nil).Start(ctx, bus)

	bus.Publish(events.StatusEvent{Kind: "pilot", ID: "P003", Status: "Assigned"})
	require.Eventually(t, func() bool { return len(rec.topics()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "skyops/pilots/P003/status", rec.topics()[0])
}

func TestNotifierSkipsFailedAssignment(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "skyops", nil)
	err := n.Handle(events.AssignmentEvent{
		Assignment: model.Assignment{PilotID: "P999", DroneID: "D001", MissionID: "PRJ001"},
		Err:        fmt.Errorf("assign pilot P999: %w", store.ErrNotFound),
	})
	require.NoError(t, err)
	assert.Empty(t, rec.topics())
}

// droneWriteFails rejects every drone write.
type droneWriteFails struct{ *store.MemoryStore }

func (d droneWriteFails) WriteField(ctx context.Context, kind store.Kind, id string, field store.Field, value string) error {
	if kind == store.KindDrone {
		return errors.New("drone sheet locked")
	}
	return d.MemoryStore.WriteField(ctx, kind, id, field, value)
}

// notifyThroughEngine runs one assignment attempt through an engine and a
// notifier sharing a bus. A status update published afterwards marks the
// end of the notices caused by the attempt.
func notifyThroughEngine(t *testing.T, s store.Store, pilotID, droneID string) ([]string, error) {
	t.Helper()
	bus := eventbus.New()
	defer bus.Close()
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewNotifier(rec, "skyops", nil).Start(ctx, bus)

	engine := matching.NewEngine(s, nil, bus)
	engine.SetClock(fixtures.Clock)
	_, err := engine.CreateAssignment(ctx, pilotID, droneID, "PRJ001")
	bus.Publish(events.StatusEvent{Kind: "drone", ID: "D004", Status: "Maintenance"})

	const last = "skyops/drones/D004/status"
	require.Eventually(t, func() bool {
		got := rec.topics()
		return len(got) > 0 && got[len(got)-1] == last
	}, time.Second, 10*time.Millisecond)
	got := rec.topics()
	return got[:len(got)-1], err
}

func TestEngineNotices(t *testing.T) {
	got, err := notifyThroughEngine(t, fixtures.Store(), "P999", "D001")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, got, "nothing was written so nothing is notified")

	got, err = notifyThroughEngine(t, droneWriteFails{fixtures.Store()}, "P001", "D001")
	require.ErrorIs(t, err, matching.ErrPartialAssignment)
	assert.Equal(t, []string{"skyops/pilots/P001/assignment"}, got)

	got, err = notifyThroughEngine(t, fixtures.Store(), "P001", "D001")
	require.NoError(t, err)
	assert.Equal(t, []string{"skyops/pilots/P001/assignment", "skyops/drones/D001/assignment"}, got)
}
