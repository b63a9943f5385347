package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/droneops/coordinator/core/events"
	coremetrics "github.com/droneops/coordinator/core/metrics"
)

// PromSink records coordination events in Prometheus metrics.
type PromSink struct {
	matches     *prometheus.CounterVec
	assignments *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	scans       prometheus.Histogram
}

// NewPromSink registers coordination metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	matches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_match_requests_total",
		Help: "Total number of candidate filter invocations",
	}, []string{"entity", "has_candidates"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_assignments_total",
		Help: "Total number of assignment commits",
	}, []string{"entity", "succeeded"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_conflicts_total",
		Help: "Conflicts found by detector scans",
	}, []string{"kind"})
	scans := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coordinator_scan_duration_seconds",
		Help:    "Duration of full conflict detection scans",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(matches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			matches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(scans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scans = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{matches: matches, assignments: assignments, conflicts: conflicts, scans: scans}, nil
}

// RecordMatch increments the filter invocation counter.
func (s *PromSink) RecordMatch(ev events.MatchEvent) error {
	s.matches.WithLabelValues(ev.Entity, strconv.FormatBool(ev.Candidates > 0)).Inc()
	return nil
}

// RecordAssignment increments the assignment counter.
func (s *PromSink) RecordAssignment(ev events.AssignmentEvent) error {
	s.assignments.WithLabelValues(ev.Entity, strconv.FormatBool(ev.Err == nil)).Inc()
	return nil
}

// RecordScan observes the scan duration and counts conflicts per kind.
func (s *PromSink) RecordScan(ev events.ScanEvent) error {
	s.scans.Observe(ev.Duration.Seconds())
	for _, c := range ev.Conflicts {
		s.conflicts.WithLabelValues(string(c.Kind)).Inc()
	}
	return nil
}
