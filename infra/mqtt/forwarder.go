package mqtt

import (
	"context"

	"github.com/droneops/coordinator/core/events"
	"github.com/droneops/coordinator/infra/logger"
	"github.com/droneops/coordinator/internal/eventbus"
)

// Forward subscribes to the bus and pushes assignment and scan events to
// the notifier until the context is cancelled.
func Forward(ctx context.Context, bus eventbus.EventBus, n Notifier, log logger.Logger) {
	if log == nil {
		log = logger.NopLogger{}
	}
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			var err error
			switch e := ev.(type) {
			case events.AssignmentEvent:
				err = n.AssignmentCommitted(e)
			case events.ScanEvent:
				err = n.ScanCompleted(e)
			}
			if err != nil {
				log.Errorf("notify: %v", err)
			}
		}
	}
}
