package metrics

import "github.com/kilianp07/skyops/core/events"

// MetricsSink is the minimum every sink implements.
type MetricsSink interface {
	RecordMatch(ev events.MatchEvent) error
}

// AssignmentRecorder records assignment attempts.
type AssignmentRecorder interface {
	RecordAssignment(ev events.AssignmentEvent) error
}

// StatusRecorder records pilot and drone status updates.
type StatusRecorder interface {
	RecordStatus(ev events.StatusEvent) error
}

// ConflictRecorder records the outcome of a conflict scan.
type ConflictRecorder interface {
	RecordConflicts(ev events.ConflictsEvent) error
}

// ReassignmentRecorder records urgent reassignment rankings.
type ReassignmentRecorder interface {
	RecordReassignment(ev events.ReassignmentEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordMatch(events.MatchEvent) error               { return nil }
func (NopSink) RecordAssignment(events.AssignmentEvent) error     { return nil }
func (NopSink) RecordStatus(events.StatusEvent) error             { return nil }
func (NopSink) RecordConflicts(events.ConflictsEvent) error       { return nil }
func (NopSink) RecordReassignment(events.ReassignmentEvent) error { return nil }
