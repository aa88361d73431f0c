package metrics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/matching"
	"github.com/kilianp07/skyops/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	_ = sink.RecordMatch(events.MatchEvent{MissionID: "PRJ001", Subject: "pilot", Urgent: true, Candidates: 3})
	_ = sink.RecordAssignment(events.AssignmentEvent{})
	_ = sink.RecordAssignment(events.AssignmentEvent{Err: fmt.Errorf("drone: %w", matching.ErrPartialAssignment)})
	_ = sink.RecordAssignment(events.AssignmentEvent{Err: errors.New("sheet down")})

	expected := `
# HELP skyops_assignments_total Assignment attempts by outcome
# TYPE skyops_assignments_total counter
skyops_assignments_total{result="failed"} 1
skyops_assignments_total{result="ok"} 1
skyops_assignments_total{result="partial"} 1
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.candidates.WithLabelValues("PRJ001", "pilot")); v != 3 {
		t.Errorf("expected 3 candidates, got %v", v)
	}
	if v := testutil.ToFloat64(sink.matches.WithLabelValues("pilot", "true")); v != 1 {
		t.Errorf("expected 1 match request, got %v", v)
	}
}

func TestPromSinkConflictGaugeResets(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordConflicts(events.ConflictsEvent{Conflicts: []model.Conflict{
		{Kind: model.ConflictBudgetOverrun, Severity: model.SeverityMedium},
		{Kind: model.ConflictBudgetOverrun, Severity: model.SeverityMedium},
		{Kind: model.ConflictWeatherRisk, Severity: model.SeverityHigh},
	}})
	if v := testutil.ToFloat64(sink.conflicts.WithLabelValues("budget-overrun", "medium")); v != 2 {
		t.Fatalf("expected 2 budget overruns, got %v", v)
	}
	_ = sink.RecordConflicts(events.ConflictsEvent{})
	if c := testutil.CollectAndCount(sink.conflicts); c != 0 {
		t.Fatalf("expected gauge reset, got %d series", c)
	}
}

func TestPromSinkReassignment(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordReassignment(events.ReassignmentEvent{Options: 3, BestScore: 250})
	_ = sink.RecordReassignment(events.ReassignmentEvent{})
	if v := testutil.ToFloat64(sink.reassignments.WithLabelValues("none")); v != 1 {
		t.Fatalf("expected 1 empty reassignment, got %v", v)
	}
	if c := testutil.CollectAndCount(sink.feasibility); c != 1 {
		t.Fatalf("expected histogram observed, got %d", c)
	}
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	_ = a.RecordStatus(events.StatusEvent{Kind: "pilot", Status: "On Leave"})
	if v := testutil.ToFloat64(b.statuses.WithLabelValues("pilot", "On Leave")); v != 1 {
		t.Fatalf("expected shared counter, got %v", v)
	}
}
