package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/skyops/core/events"
	corelogger "github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/matching"
	coremqtt "github.com/kilianp07/skyops/core/mqtt"
	"github.com/kilianp07/skyops/internal/eventbus"
)

// AssignmentNotice is sent to the pilot and the drone of a new assignment.
type AssignmentNotice struct {
	MessageID    string `json:"message_id"`
	AssignmentID string `json:"assignment_id"`
	MissionID    string `json:"mission_id"`
	PilotID      string `json:"pilot_id"`
	DroneID      string `json:"drone_id"`
	Partial      bool   `json:"partial,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// StatusNotice is sent when a pilot or drone status changes.
type StatusNotice struct {
	MessageID string `json:"message_id"`
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier forwards assignment and status events to MQTT topics.
type Notifier struct {
	pub    coremqtt.Publisher
	prefix string
	log    corelogger.Logger
	newID  func() string
}

// NewNotifier creates a Notifier publishing under prefix.
func NewNotifier(pub coremqtt.Publisher, prefix string, log corelogger.Logger) *Notifier {
	return &Notifier{
		pub:    pub,
		prefix: strings.TrimSuffix(prefix, "/"),
		log:    corelogger.OrNop(log),
		newID:  uuid.NewString,
	}
}

// Start consumes bus events until ctx is canceled or the bus closes.
func (n *Notifier) Start(ctx context.Context, bus eventbus.EventBus) {
	sub := bus.Subscribe(events.NameAssignment, events.NameStatus)
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := n.Handle(ev); err != nil {
					n.log.Warnf("notify %s: %v", ev.EventName(), err)
				}
			}
		}
	}()
}

// Handle publishes the notices for a single event. Other event types are
// ignored.
func (n *Notifier) Handle(ev events.Event) error {
	switch e := ev.(type) {
	case events.AssignmentEvent:
		return n.assignment(e)
	case events.StatusEvent:
		return n.status(e)
	}
	return nil
}

// assignment notifies completed and partial assignments. A partial
// assignment only reached the pilot, so the drone is not told. An attempt
// that failed on the pilot write changed nothing and is not notified.
func (n *Notifier) assignment(e events.AssignmentEvent) error {
	partial := errors.Is(e.Err, matching.ErrPartialAssignment)
	if e.Err != nil && !partial {
		return nil
	}
	a := e.Assignment
	notice := AssignmentNotice{
		MessageID:    n.newID(),
		AssignmentID: a.ID,
		MissionID:    a.MissionID,
		PilotID:      a.PilotID,
		DroneID:      a.DroneID,
		Partial:      partial,
		Timestamp:    stamp(e.Time),
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	if err := n.pub.Publish(n.topic("pilots", a.PilotID, "assignment"), payload); err != nil {
		return err
	}
	if partial {
		return nil
	}
	return n.pub.Publish(n.topic("drones", a.DroneID, "assignment"), payload)
}

func (n *Notifier) status(e events.StatusEvent) error {
	payload, err := json.Marshal(StatusNotice{
		MessageID: n.newID(),
		Kind:      e.Kind,
		ID:        e.ID,
		Status:    e.Status,
		Timestamp: stamp(e.Time),
	})
	if err != nil {
		return err
	}
	return n.pub.Publish(n.topic(e.Kind+"s", e.ID, "status"), payload)
}

func (n *Notifier) topic(collection, id, leaf string) string {
	if n.prefix == "" {
		return fmt.Sprintf("%s/%s/%s", collection, id, leaf)
	}
	return fmt.Sprintf("%s/%s/%s/%s", n.prefix, collection, id, leaf)
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}
