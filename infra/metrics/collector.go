package metrics

import (
	"context"

	"github.com/kilianp07/skyops/core/events"
	corelogger "github.com/kilianp07/skyops/core/logger"
	coremetrics "github.com/kilianp07/skyops/core/metrics"
	"github.com/kilianp07/skyops/internal/eventbus"
)

// StartEventCollector feeds bus events to sink until ctx is canceled or
// the bus closes. Sinks only receive the events they have a recorder for.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log corelogger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	log = corelogger.OrNop(log)
	sub := bus.Subscribe()
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
				if err := record(sink, ev); err != nil {
					log.Warnf("record %s: %v", ev.EventName(), err)
				}
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev events.Event) error {
	switch e := ev.(type) {
	case events.MatchEvent:
		return sink.RecordMatch(e)
	case events.AssignmentEvent:
		if r, ok := sink.(coremetrics.AssignmentRecorder); ok {
			return r.RecordAssignment(e)
		}
	case events.StatusEvent:
		if r, ok := sink.(coremetrics.StatusRecorder); ok {
			return r.RecordStatus(e)
		}
	case events.ConflictsEvent:
		if r, ok := sink.(coremetrics.ConflictRecorder); ok {
			return r.RecordConflicts(e)
		}
	case events.ReassignmentEvent:
		if r, ok := sink.(coremetrics.ReassignmentRecorder); ok {
			return r.RecordReassignment(e)
		}
	}
	return nil
}
