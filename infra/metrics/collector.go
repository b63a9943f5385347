package metrics

import (
	"context"

	"github.com/droneops/coordinator/core/events"
	coremetrics "github.com/droneops/coordinator/core/metrics"
	"github.com/droneops/coordinator/infra/logger"
	"github.com/droneops/coordinator/internal/eventbus"
)

// Collect subscribes to the bus and forwards coordination events to the
// sink until the context is cancelled. Unknown event types are ignored.
func Collect(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) {
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
			case events.MatchEvent:
				err = sink.RecordMatch(e)
			case events.AssignmentEvent:
				err = sink.RecordAssignment(e)
			case events.ScanEvent:
				err = sink.RecordScan(e)
			}
			if err != nil {
				log.Errorf("record metric: %v", err)
			}
		}
	}
}
