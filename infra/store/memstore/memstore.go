// Package memstore provides an in-memory record store. It backs tests and
// the seed-and-run development mode; the sqlstore package provides the
// durable equivalent.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

// MemStore keeps the three tables in memory, guarded by a RWMutex. List
// order is insertion order, matching how tabular stores serve rows.
type MemStore struct {
	mu       sync.RWMutex
	missions []model.Mission
	pilots   []model.Pilot
	drones   []model.Drone
}

// New creates an empty MemStore.
func New() *MemStore { return &MemStore{} }

// Seed replaces the store contents with the snapshot.
func (s *MemStore) Seed(snap store.Snapshot) {
	s.mu.Lock()
	s.missions = append([]model.Mission(nil), snap.Missions...)
	s.pilots = append([]model.Pilot(nil), snap.Pilots...)
	s.drones = append([]model.Drone(nil), snap.Drones...)
	s.mu.Unlock()
}

func cloneMission(m model.Mission) model.Mission {
	m.RequiredSkills = m.RequiredSkills.Clone()
	m.RequiredCerts = m.RequiredCerts.Clone()
	return m
}

func clonePilot(p model.Pilot) model.Pilot {
	p.Skills = p.Skills.Clone()
	p.Certifications = p.Certifications.Clone()
	return p
}

func cloneDrone(d model.Drone) model.Drone {
	d.Capabilities = d.Capabilities.Clone()
	return d
}

// Missions returns a snapshot copy of the missions table.
func (s *MemStore) Missions(ctx context.Context) ([]model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, cloneMission(m))
	}
	return out, nil
}

// Pilots returns a snapshot copy of the pilot_roster table.
func (s *MemStore) Pilots(ctx context.Context) ([]model.Pilot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Pilot, 0, len(s.pilots))
	for _, p := range s.pilots {
		out = append(out, clonePilot(p))
	}
	return out, nil
}

// Drones returns a snapshot copy of the drone_fleet table.
func (s *MemStore) Drones(ctx context.Context) ([]model.Drone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Drone, 0, len(s.drones))
	for _, d := range s.drones {
		out = append(out, cloneDrone(d))
	}
	return out, nil
}

// AssignPilot marks the pilot Busy on the mission.
func (s *MemStore) AssignPilot(ctx context.Context, pilotName, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pilots {
		if s.pilots[i].Name == pilotName {
			s.pilots[i].Status = model.PilotBusy
			s.pilots[i].CurrentAssignment = missionID
			return nil
		}
	}
	return fmt.Errorf("pilot %s: %w", pilotName, store.ErrNotFound)
}

// AssignDrone marks the drone Deployed on the mission and records the drone
// on the mission row. Both writes happen under one lock, so the memory
// store never partially applies an assignment.
func (s *MemStore) AssignDrone(ctx context.Context, droneID, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	di := -1
	for i := range s.drones {
		if s.drones[i].ID == droneID {
			di = i
			break
		}
	}
	if di < 0 {
		return fmt.Errorf("drone %s: %w", droneID, store.ErrNotFound)
	}
	mi := -1
	for i := range s.missions {
		if s.missions[i].ProjectID == missionID {
			mi = i
			break
		}
	}
	if mi < 0 {
		return fmt.Errorf("mission %s: %w", missionID, store.ErrNotFound)
	}
	s.drones[di].Status = model.DroneDeployed
	s.drones[di].CurrentAssignment = missionID
	s.missions[mi].AssignedDrone = droneID
	return nil
}

// UpdatePilotStatus sets the pilot's status field only.
func (s *MemStore) UpdatePilotStatus(ctx context.Context, pilotName string, status model.PilotStatus) error {
	if _, err := model.ParsePilotStatus(string(status)); err != nil {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pilots {
		if s.pilots[i].Name == pilotName {
			s.pilots[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("pilot %s: %w", pilotName, store.ErrNotFound)
}

// UpdateDroneStatus sets the drone's status field only.
func (s *MemStore) UpdateDroneStatus(ctx context.Context, droneID string, status model.DroneStatus) error {
	if _, err := model.ParseDroneStatus(string(status)); err != nil {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drones {
		if s.drones[i].ID == droneID {
			s.drones[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("drone %s: %w", droneID, store.ErrNotFound)
}

var _ store.Store = (*MemStore)(nil)
