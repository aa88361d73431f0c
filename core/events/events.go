package events

import (
	"time"

	"github.com/kilianp07/skyops/core/model"
)

// Event is implemented by every notification type.
type Event interface {
	EventName() string
}

const (
	NameMatch        = "match"
	NameAssignment   = "assignment"
	NameStatus       = "status"
	NameConflicts    = "conflicts"
	NameReassignment = "reassignment"
)

// Publisher accepts events. Publishing must not block.
type Publisher interface {
	Publish(Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// OrNop returns p, or NopPublisher when p is nil.
func OrNop(p Publisher) Publisher {
	if p == nil {
		return NopPublisher{}
	}
	return p
}

// MatchEvent is emitted after candidates were ranked for a mission.
type MatchEvent struct {
	MissionID  string
	Subject    string // "pilot" or "drone"
	Urgent     bool
	Candidates int
	TopScore   int
	Time       time.Time
}

func (MatchEvent) EventName() string { return NameMatch }

// AssignmentEvent is emitted after an assignment attempt. Err is set when
// the attempt failed; it wraps matching.ErrPartialAssignment when only the
// pilot side was written and nothing was written otherwise.
type AssignmentEvent struct {
	Assignment model.Assignment
	Err        error
	Time       time.Time
}

func (AssignmentEvent) EventName() string { return NameAssignment }

// StatusEvent is emitted after a pilot or drone status update.
type StatusEvent struct {
	Kind   string
	ID     string
	Status string
	Time   time.Time
}

func (StatusEvent) EventName() string { return NameStatus }

// ConflictsEvent is emitted after each detection run.
type ConflictsEvent struct {
	Conflicts []model.Conflict
	Time      time.Time
}

func (ConflictsEvent) EventName() string { return NameConflicts }

// ReassignmentEvent is emitted after an urgent reassignment was ranked.
type ReassignmentEvent struct {
	MissionID string
	Reason    string
	Options   int
	BestScore int
	Time      time.Time
}

func (ReassignmentEvent) EventName() string { return NameReassignment }
