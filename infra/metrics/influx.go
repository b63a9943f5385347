package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/droneops/coordinator/core/events"
	coremetrics "github.com/droneops/coordinator/core/metrics"
	"github.com/droneops/coordinator/infra/logger"
)

// InfluxSink writes coordination events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordMatch writes the filter invocation as a point.
func (s *InfluxSink) RecordMatch(ev events.MatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("match_event").
		AddTag("mission_id", ev.MissionID).
		AddTag("entity", ev.Entity).
		AddField("candidates", ev.Candidates).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAssignment writes the assignment commit as a point.
func (s *InfluxSink) RecordAssignment(ev events.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errMsg := ""
	if ev.Err != nil {
		errMsg = ev.Err.Error()
	}
	p := write.NewPointWithMeasurement("assignment_event").
		AddTag("audit_id", ev.AuditID).
		AddTag("entity", ev.Entity).
		AddTag("entity_key", ev.EntityKey).
		AddTag("mission_id", ev.MissionID).
		AddTag("succeeded", strconv.FormatBool(ev.Err == nil)).
		AddField("error", errMsg).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordScan writes one point per scan with per-kind conflict counts.
func (s *InfluxSink) RecordScan(ev events.ScanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	counts := map[string]int{}
	for _, c := range ev.Conflicts {
		counts[string(c.Kind)]++
	}
	p := write.NewPointWithMeasurement("conflict_scan").
		AddField("total", len(ev.Conflicts)).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	for kind, n := range counts {
		p.AddField(kind, n)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
