package metrics

import (
	"errors"

	"github.com/droneops/coordinator/core/events"
	coremetrics "github.com/droneops/coordinator/core/metrics"
)

// MultiSink fans events out to several sinks. Errors are joined so one
// failing sink does not hide the others.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordMatch(ev events.MatchEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordMatch(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAssignment(ev events.AssignmentEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordAssignment(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordScan(ev events.ScanEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordScan(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
