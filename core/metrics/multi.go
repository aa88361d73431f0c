package metrics

import (
	"errors"

	"github.com/kilianp07/skyops/core/events"
)

// MultiSink forwards every record to all sinks supporting it.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink over sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordMatch forwards to all sinks and joins their errors.
func (m *MultiSink) RecordMatch(ev events.MatchEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordMatch(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAssignment(ev events.AssignmentEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(AssignmentRecorder); ok {
			errs = append(errs, r.RecordAssignment(ev))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordStatus(ev events.StatusEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(StatusRecorder); ok {
			errs = append(errs, r.RecordStatus(ev))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordConflicts(ev events.ConflictsEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(ConflictRecorder); ok {
			errs = append(errs, r.RecordConflicts(ev))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordReassignment(ev events.ReassignmentEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(ReassignmentRecorder); ok {
			errs = append(errs, r.RecordReassignment(ev))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink exposing a Close method.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
