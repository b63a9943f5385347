// Package coord orchestrates the matching engine against a record store:
// candidate lookups, full conflict scans, and confirmed-assignment commits.
// The engine never auto-commits a match; commits happen only through the
// explicit Assign methods after a human confirms a candidate.
package coord

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/droneops/coordinator/core/conflict"
	"github.com/droneops/coordinator/core/events"
	"github.com/droneops/coordinator/core/logger"
	"github.com/droneops/coordinator/core/match"
	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
	"github.com/droneops/coordinator/internal/eventbus"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// Coordinator wires the pure engine to a record store and the event bus.
type Coordinator struct {
	store store.Store
	bus   eventbus.EventBus
	log   logger.Logger
	now   func() time.Time
}

// New creates a Coordinator. bus may be nil when no subscribers exist;
// log may be nil for silent operation.
func New(st store.Store, bus eventbus.EventBus, log logger.Logger) *Coordinator {
	if log == nil {
		log = nopLogger{}
	}
	return &Coordinator{store: st, bus: bus, log: log, now: time.Now}
}

func (c *Coordinator) publish(ev eventbus.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}

func (c *Coordinator) mission(ctx context.Context, missionID string) (model.Mission, error) {
	missions, err := c.store.Missions(ctx)
	if err != nil {
		return model.Mission{}, err
	}
	for _, m := range missions {
		if m.ProjectID == missionID {
			return m, nil
		}
	}
	return model.Mission{}, fmt.Errorf("mission %s: %w", missionID, store.ErrNotFound)
}

// PilotCandidates returns the pilots eligible for the mission, in roster
// order. An empty result is normal.
func (c *Coordinator) PilotCandidates(ctx context.Context, missionID string) ([]string, error) {
	mission, err := c.mission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	pilots, err := c.store.Pilots(ctx)
	if err != nil {
		return nil, err
	}
	names := match.Pilots(mission, pilots)
	c.log.Debugw("pilot candidates", map[string]any{"mission": missionID, "count": len(names)})
	c.publish(events.MatchEvent{MissionID: missionID, Entity: "pilot", Candidates: len(names), Time: c.now()})
	return names, nil
}

// DroneCandidates returns the drones eligible for the mission, in fleet
// order.
func (c *Coordinator) DroneCandidates(ctx context.Context, missionID string) ([]string, error) {
	mission, err := c.mission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	drones, err := c.store.Drones(ctx)
	if err != nil {
		return nil, err
	}
	ids := match.Drones(mission, drones, c.now())
	c.log.Debugw("drone candidates", map[string]any{"mission": missionID, "count": len(ids)})
	c.publish(events.MatchEvent{MissionID: missionID, Entity: "drone", Candidates: len(ids), Time: c.now()})
	return ids, nil
}

// Missions lists all missions.
func (c *Coordinator) Missions(ctx context.Context) ([]model.Mission, error) {
	return c.store.Missions(ctx)
}

// Scan runs every conflict detector over a fresh snapshot. Each call is a
// full re-scan; there is no incremental mode.
func (c *Coordinator) Scan(ctx context.Context) ([]conflict.Conflict, error) {
	started := c.now()
	snap, err := store.Load(ctx, c.store)
	if err != nil {
		return nil, err
	}
	conflicts, err := conflict.Scan(snap.Missions, snap.Pilots, snap.Drones)
	if err != nil {
		return nil, err
	}
	dur := c.now().Sub(started)
	c.log.Infof("conflict scan found %d conflicts in %s", len(conflicts), dur)
	c.publish(events.ScanEvent{Conflicts: conflicts, Duration: dur, Time: c.now()})
	return conflicts, nil
}

// AssignPilot commits a confirmed pilot match.
func (c *Coordinator) AssignPilot(ctx context.Context, pilotName, missionID string) error {
	err := c.store.AssignPilot(ctx, pilotName, missionID)
	c.publish(events.AssignmentEvent{
		AuditID:   uuid.NewString(),
		Entity:    "pilot",
		EntityKey: pilotName,
		MissionID: missionID,
		Err:       err,
		Time:      c.now(),
	})
	if err != nil {
		return fmt.Errorf("assign pilot: %w", err)
	}
	c.log.Infof("assigned pilot %s to mission %s", pilotName, missionID)
	return nil
}

// AssignDrone commits a confirmed drone match. A *store.PartialWriteError
// passes through so callers know to re-run Scan.
func (c *Coordinator) AssignDrone(ctx context.Context, droneID, missionID string) error {
	err := c.store.AssignDrone(ctx, droneID, missionID)
	c.publish(events.AssignmentEvent{
		AuditID:   uuid.NewString(),
		Entity:    "drone",
		EntityKey: droneID,
		MissionID: missionID,
		Err:       err,
		Time:      c.now(),
	})
	if err != nil {
		return err
	}
	c.log.Infof("assigned drone %s to mission %s", droneID, missionID)
	return nil
}

// UpdatePilotStatus sets a pilot's status field.
func (c *Coordinator) UpdatePilotStatus(ctx context.Context, pilotName string, status model.PilotStatus) error {
	return c.store.UpdatePilotStatus(ctx, pilotName, status)
}

// UpdateDroneStatus sets a drone's status field.
func (c *Coordinator) UpdateDroneStatus(ctx context.Context, droneID string, status model.DroneStatus) error {
	return c.store.UpdateDroneStatus(ctx, droneID, status)
}
