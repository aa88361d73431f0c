package audit

import (
	"context"

	coreaudit "github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/events"
	corelogger "github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/internal/eventbus"
)

// StartRecorder appends every write event published on bus to store. The
// returned channel is closed once the consumer stopped, after ctx is
// canceled or the bus closed and its buffered events were drained.
func StartRecorder(ctx context.Context, bus eventbus.EventBus, store coreaudit.LogStore, log corelogger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
		close(done)
		return done
	}
	log = corelogger.OrNop(log)
	sub := bus.Subscribe(events.NameAssignment, events.NameStatus, events.NameReassignment)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				rec, ok := coreaudit.FromEvent(ev)
				if !ok {
					continue
				}
				// ctx may already be canceled while draining a closed bus.
				if err := store.Append(context.WithoutCancel(ctx), rec); err != nil {
					log.Errorf("audit %s: %v", ev.EventName(), err)
				}
			}
		}
	}()
	return done
}
