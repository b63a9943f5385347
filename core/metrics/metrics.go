package metrics

import (
	"github.com/droneops/coordinator/core/events"
)

// MetricsSink records coordination events for observability purposes.
// Implementations must be safe for concurrent use.
type MetricsSink interface {
	RecordMatch(ev events.MatchEvent) error
	RecordAssignment(ev events.AssignmentEvent) error
	RecordScan(ev events.ScanEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordMatch(events.MatchEvent) error           { return nil }
func (NopSink) RecordAssignment(events.AssignmentEvent) error { return nil }
func (NopSink) RecordScan(events.ScanEvent) error             { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults fills in the default Prometheus port.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
