// Package store defines the record-store boundary: snapshot reads of the
// three coordination tables and the write-side assignment contract. The
// engine packages consume these interfaces and never talk to a concrete
// backend directly.
package store

import (
	"context"

	"github.com/droneops/coordinator/core/model"
)

// Table names as exposed by the record store.
const (
	TableMissions = "missions"
	TablePilots   = "pilot_roster"
	TableDrones   = "drone_fleet"
)

// Reader serves point-in-time snapshots of the coordination tables. Row
// order is stable for a given backend so filter output is deterministic.
type Reader interface {
	Missions(ctx context.Context) ([]model.Mission, error)
	Pilots(ctx context.Context) ([]model.Pilot, error)
	Drones(ctx context.Context) ([]model.Drone, error)
}

// Mutator commits confirmed matches back to the tables. Every operation is
// idempotent under retry with the same arguments. Retry policy belongs to
// the caller; implementations never retry internally.
type Mutator interface {
	// AssignPilot sets the pilot Busy and records the mission as its
	// current assignment.
	AssignPilot(ctx context.Context, pilotName, missionID string) error
	// AssignDrone sets the drone Deployed with the mission as its current
	// assignment, and records the drone on the mission. The two writes are
	// one logical unit; implementations that cannot complete the second
	// write after the first must return a *PartialWriteError.
	AssignDrone(ctx context.Context, droneID, missionID string) error
	// UpdatePilotStatus sets the pilot's status field only.
	UpdatePilotStatus(ctx context.Context, pilotName string, status model.PilotStatus) error
	// UpdateDroneStatus sets the drone's status field only.
	UpdateDroneStatus(ctx context.Context, droneID string, status model.DroneStatus) error
}

// Store combines the read and write contracts.
type Store interface {
	Reader
	Mutator
}

// Snapshot bundles one read of all three tables for a detector scan.
type Snapshot struct {
	Missions []model.Mission
	Pilots   []model.Pilot
	Drones   []model.Drone
}

// Load reads all three tables from r.
func Load(ctx context.Context, r Reader) (Snapshot, error) {
	missions, err := r.Missions(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	pilots, err := r.Pilots(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	drones, err := r.Drones(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Missions: missions, Pilots: pilots, Drones: drones}, nil
}
