package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/matching"
	coremetrics "github.com/kilianp07/skyops/core/metrics"
	"github.com/kilianp07/skyops/core/model"
)

// PromSink records domain events in Prometheus collectors.
type PromSink struct {
	matches       *prometheus.CounterVec
	candidates    *prometheus.GaugeVec
	assignments   *prometheus.CounterVec
	statuses      *prometheus.CounterVec
	conflicts     *prometheus.GaugeVec
	reassignments *prometheus.CounterVec
	feasibility   prometheus.Histogram
}

// NewPromSink registers the collectors on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the collectors on reg. Collectors that
// already exist on reg are reused. A nil reg means the default registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.matches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyops_match_requests_total",
		Help: "Candidate ranking requests by subject",
	}, []string{"subject", "urgent"})); err != nil {
		return nil, err
	}
	if s.candidates, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "skyops_match_candidates",
		Help: "Candidates returned by the last ranking per mission",
	}, []string{"mission_id", "subject"})); err != nil {
		return nil, err
	}
	if s.assignments, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyops_assignments_total",
		Help: "Assignment attempts by outcome",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if s.statuses, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyops_status_updates_total",
		Help: "Pilot and drone status updates",
	}, []string{"kind", "status"})); err != nil {
		return nil, err
	}
	if s.conflicts, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "skyops_conflicts",
		Help: "Conflicts found by the last scan",
	}, []string{"type", "severity"})); err != nil {
		return nil, err
	}
	if s.reassignments, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyops_reassignments_total",
		Help: "Urgent reassignment requests by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.feasibility, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skyops_reassignment_best_score",
		Help:    "Feasibility score of the best urgent bundle",
		Buckets: prometheus.LinearBuckets(0, 50, 8),
	})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) RecordMatch(ev events.MatchEvent) error {
	s.matches.WithLabelValues(ev.Subject, strconv.FormatBool(ev.Urgent)).Inc()
	s.candidates.WithLabelValues(ev.MissionID, ev.Subject).Set(float64(ev.Candidates))
	return nil
}

func (s *PromSink) RecordAssignment(ev events.AssignmentEvent) error {
	s.assignments.WithLabelValues(assignmentResult(ev)).Inc()
	return nil
}

func (s *PromSink) RecordStatus(ev events.StatusEvent) error {
	s.statuses.WithLabelValues(ev.Kind, ev.Status).Inc()
	return nil
}

// RecordConflicts replaces the gauge values with the counts of this scan.
func (s *PromSink) RecordConflicts(ev events.ConflictsEvent) error {
	s.conflicts.Reset()
	for key, n := range countConflicts(ev.Conflicts) {
		s.conflicts.WithLabelValues(string(key.kind), string(key.severity)).Set(float64(n))
	}
	return nil
}

func (s *PromSink) RecordReassignment(ev events.ReassignmentEvent) error {
	if ev.Options == 0 {
		s.reassignments.WithLabelValues("none").Inc()
		return nil
	}
	s.reassignments.WithLabelValues("options").Inc()
	s.feasibility.Observe(float64(ev.BestScore))
	return nil
}

type conflictKey struct {
	kind     model.ConflictKind
	severity model.Severity
}

func countConflicts(cs []model.Conflict) map[conflictKey]int {
	out := make(map[conflictKey]int)
	for _, c := range cs {
		out[conflictKey{c.Kind, c.Severity}]++
	}
	return out
}

func assignmentResult(ev events.AssignmentEvent) string {
	switch {
	case ev.Err == nil:
		return "ok"
	case errors.Is(ev.Err, matching.ErrPartialAssignment):
		return "partial"
	default:
		return "failed"
	}
}

var _ interface {
	coremetrics.MetricsSink
	coremetrics.AssignmentRecorder
	coremetrics.StatusRecorder
	coremetrics.ConflictRecorder
	coremetrics.ReassignmentRecorder
} = (*PromSink)(nil)
