// Package audit keeps a history of the writes made by the coordinator:
// assignments, status updates and urgent reassignments.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/events"
)

// Kind names the operation a Record describes.
type Kind string

const (
	KindAssignment   Kind = "assignment"
	KindStatus       Kind = "status"
	KindReassignment Kind = "reassignment"
)

// ParseKind accepts a kind name in any case. An empty name is valid and
// means every kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "", KindAssignment, KindStatus, KindReassignment:
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown audit kind")

// Record captures one write and its outcome.
type Record struct {
	Time      time.Time `json:"time"`
	Kind      Kind      `json:"kind"`
	MissionID string    `json:"mission_id,omitempty"`
	PilotID   string    `json:"pilot_id,omitempty"`
	DroneID   string    `json:"drone_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Query filters records. Zero fields are unconstrained. EntityID matches
// either the pilot or the drone of a record.
type Query struct {
	Start     time.Time
	End       time.Time
	Kind      Kind
	MissionID string
	EntityID  string
}

// Matches reports whether r satisfies q.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.MissionID != "" && !strings.EqualFold(r.MissionID, q.MissionID) {
		return false
	}
	if q.EntityID != "" && !strings.EqualFold(r.PilotID, q.EntityID) && !strings.EqualFold(r.DroneID, q.EntityID) {
		return false
	}
	return true
}

// LogStore persists records and supports querying them in time order.
type LogStore interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// FromEvent converts a bus event into a record. Events that are not
// writes report false.
func FromEvent(ev events.Event) (Record, bool) {
	switch e := ev.(type) {
	case events.AssignmentEvent:
		r := Record{
			Time:      e.Time,
			Kind:      KindAssignment,
			MissionID: e.Assignment.MissionID,
			PilotID:   e.Assignment.PilotID,
			DroneID:   e.Assignment.DroneID,
			Detail:    e.Assignment.Message,
		}
		if e.Err != nil {
			r.Error = e.Err.Error()
		}
		return r, true
	case events.StatusEvent:
		r := Record{Time: e.Time, Kind: KindStatus, Status: e.Status}
		if e.Kind == "drone" {
			r.DroneID = e.ID
		} else {
			r.PilotID = e.ID
		}
		return r, true
	case events.ReassignmentEvent:
		return Record{
			Time:      e.Time,
			Kind:      KindReassignment,
			MissionID: e.MissionID,
			Detail:    e.Reason,
		}, true
	}
	return Record{}, false
}
