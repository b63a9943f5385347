// Package conflict implements the conflict detectors: stateless scans over
// full snapshots of the mission, pilot and drone tables. Detectors are a
// compensating control for the record store's read-after-write staleness
// window, so every invocation is a full re-scan. An empty result means no
// conflicts and is the common case.
package conflict

import (
	"fmt"

	"github.com/droneops/coordinator/core/model"
)

// Kind labels the detector that produced a conflict.
type Kind string

const (
	KindPilotDoubleBooking    Kind = "pilot_double_booking"
	KindDroneDoubleBooking    Kind = "drone_double_booking"
	KindSkillCertMismatch     Kind = "skill_cert_mismatch"
	KindDroneLocationMismatch Kind = "drone_location_mismatch"
	KindDroneMaintenance      Kind = "drone_maintenance"
	// KindDanglingAssignment flags an assignment pointing at a record that
	// no longer exists. Dangling keys are surfaced rather than dropped so
	// partial writes stay visible.
	KindDanglingAssignment Kind = "dangling_assignment"
)

// Conflict is one detector finding. Fields not relevant to the kind are
// left empty.
type Conflict struct {
	Kind               Kind   `json:"kind"`
	Pilot              string `json:"pilot,omitempty"`
	Drone              string `json:"drone,omitempty"`
	AssignedMission    string `json:"assigned_mission,omitempty"`
	ConflictingMission string `json:"conflicting_mission,omitempty"`
	Issue              string `json:"issue"`
}

func missionIndex(missions []model.Mission) (map[string]model.Mission, error) {
	idx := make(map[string]model.Mission, len(missions))
	for _, m := range missions {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		idx[m.ProjectID] = m
	}
	return idx, nil
}

func droneIndex(drones []model.Drone) map[string]model.Drone {
	idx := make(map[string]model.Drone, len(drones))
	for _, d := range drones {
		idx[d.ID] = d
	}
	return idx
}

// PilotDoubleBookings flags every assigned pilot whose mission window
// intersects any other mission's window, whether or not the pilot staffs
// the other mission. The broad reading is intentional: an assigned pilot
// whose window collides with another mission cannot also staff it.
// Boundaries are inclusive, so windows touching on one day collide.
func PilotDoubleBookings(pilots []model.Pilot, missions []model.Mission) ([]Conflict, error) {
	idx, err := missionIndex(missions)
	if err != nil {
		return nil, fmt.Errorf("pilot double-booking scan: %w", err)
	}
	var out []Conflict
	for _, p := range pilots {
		if !p.Assigned() {
			continue
		}
		assigned, ok := idx[p.CurrentAssignment]
		if !ok {
			out = append(out, Conflict{
				Kind:            KindDanglingAssignment,
				Pilot:           p.Name,
				AssignedMission: p.CurrentAssignment,
				Issue:           fmt.Sprintf("Assigned mission %s not found", p.CurrentAssignment),
			})
			continue
		}
		for _, m := range missions {
			if m.ProjectID == assigned.ProjectID {
				continue
			}
			if model.RangesOverlap(assigned.Start, assigned.End, m.Start, m.End) {
				out = append(out, Conflict{
					Kind:               KindPilotDoubleBooking,
					Pilot:              p.Name,
					AssignedMission:    assigned.ProjectID,
					ConflictingMission: m.ProjectID,
					Issue:              fmt.Sprintf("Mission %s overlaps %s", assigned.ProjectID, m.ProjectID),
				})
			}
		}
	}
	return out, nil
}

// DroneDoubleBookings is the drone counterpart of PilotDoubleBookings,
// keyed on the drone's current assignment and using the same inclusive
// overlap predicate.
func DroneDoubleBookings(drones []model.Drone, missions []model.Mission) ([]Conflict, error) {
	idx, err := missionIndex(missions)
	if err != nil {
		return nil, fmt.Errorf("drone double-booking scan: %w", err)
	}
	var out []Conflict
	for _, d := range drones {
		if !d.Assigned() {
			continue
		}
		assigned, ok := idx[d.CurrentAssignment]
		if !ok {
			out = append(out, Conflict{
				Kind:            KindDanglingAssignment,
				Drone:           d.ID,
				AssignedMission: d.CurrentAssignment,
				Issue:           fmt.Sprintf("Assigned mission %s not found", d.CurrentAssignment),
			})
			continue
		}
		for _, m := range missions {
			if m.ProjectID == assigned.ProjectID {
				continue
			}
			if model.RangesOverlap(assigned.Start, assigned.End, m.Start, m.End) {
				out = append(out, Conflict{
					Kind:               KindDroneDoubleBooking,
					Drone:              d.ID,
					AssignedMission:    assigned.ProjectID,
					ConflictingMission: m.ProjectID,
					Issue:              fmt.Sprintf("Mission %s overlaps %s", assigned.ProjectID, m.ProjectID),
				})
			}
		}
	}
	return out, nil
}

// SkillCertMismatches checks every assigned pilot against the assigned
// mission's requirements and emits one conflict per missing skill and one
// per missing certification.
func SkillCertMismatches(pilots []model.Pilot, missions []model.Mission) []Conflict {
	idx := make(map[string]model.Mission, len(missions))
	for _, m := range missions {
		idx[m.ProjectID] = m
	}
	var out []Conflict
	for _, p := range pilots {
		if !p.Assigned() {
			continue
		}
		mission, ok := idx[p.CurrentAssignment]
		if !ok {
			out = append(out, Conflict{
				Kind:            KindDanglingAssignment,
				Pilot:           p.Name,
				AssignedMission: p.CurrentAssignment,
				Issue:           fmt.Sprintf("Assigned mission %s not found", p.CurrentAssignment),
			})
			continue
		}
		for _, skill := range mission.RequiredSkills.Diff(p.Skills) {
			out = append(out, Conflict{
				Kind:            KindSkillCertMismatch,
				Pilot:           p.Name,
				AssignedMission: mission.ProjectID,
				Issue:           "Missing skill: " + skill,
			})
		}
		for _, cert := range mission.RequiredCerts.Diff(p.Certifications) {
			out = append(out, Conflict{
				Kind:            KindSkillCertMismatch,
				Pilot:           p.Name,
				AssignedMission: mission.ProjectID,
				Issue:           "Missing certification: " + cert,
			})
		}
	}
	return out
}

// DroneLocationMismatches flags missions whose assigned drone sits at a
// different location. Comparison is trimmed and case-insensitive.
func DroneLocationMismatches(missions []model.Mission, drones []model.Drone) []Conflict {
	idx := droneIndex(drones)
	var out []Conflict
	for _, m := range missions {
		if m.AssignedDrone == "" {
			continue
		}
		d, ok := idx[m.AssignedDrone]
		if !ok {
			out = append(out, Conflict{
				Kind:            KindDanglingAssignment,
				Drone:           m.AssignedDrone,
				AssignedMission: m.ProjectID,
				Issue:           fmt.Sprintf("Assigned drone %s not found", m.AssignedDrone),
			})
			continue
		}
		if !model.EqualText(d.Location, m.Location) {
			out = append(out, Conflict{
				Kind:            KindDroneLocationMismatch,
				Drone:           d.ID,
				AssignedMission: m.ProjectID,
				Issue:           fmt.Sprintf("Drone at %s, mission at %s", d.Location, m.Location),
			})
		}
	}
	return out
}

// DroneMaintenanceConflicts flags missions whose assigned drone is in
// Maintenance status.
func DroneMaintenanceConflicts(missions []model.Mission, drones []model.Drone) []Conflict {
	idx := droneIndex(drones)
	var out []Conflict
	for _, m := range missions {
		if m.AssignedDrone == "" {
			continue
		}
		d, ok := idx[m.AssignedDrone]
		if !ok {
			// Dangling assignments are already reported by the location scan.
			continue
		}
		if d.Status == model.DroneMaintenance {
			out = append(out, Conflict{
				Kind:            KindDroneMaintenance,
				Drone:           d.ID,
				AssignedMission: m.ProjectID,
				Issue:           fmt.Sprintf("Drone %s is under maintenance", d.ID),
			})
		}
	}
	return out
}

// Scan runs every detector over the snapshot and concatenates the results
// in a fixed order: pilot double-bookings, drone double-bookings, skill and
// certification mismatches, location mismatches, maintenance conflicts.
func Scan(missions []model.Mission, pilots []model.Pilot, drones []model.Drone) ([]Conflict, error) {
	var out []Conflict
	pc, err := PilotDoubleBookings(pilots, missions)
	if err != nil {
		return nil, err
	}
	out = append(out, pc...)
	dc, err := DroneDoubleBookings(drones, missions)
	if err != nil {
		return nil, err
	}
	out = append(out, dc...)
	out = append(out, SkillCertMismatches(pilots, missions)...)
	out = append(out, DroneLocationMismatches(missions, drones)...)
	out = append(out, DroneMaintenanceConflicts(missions, drones)...)
	return out, nil
}
