package model

import (
	"fmt"
	"strings"
)

// PilotStatus enumerates the roster states a pilot can be in.
type PilotStatus string

const (
	PilotAvailable   PilotStatus = "Available"
	PilotBusy        PilotStatus = "Busy"
	PilotOnLeave     PilotStatus = "On Leave"
	PilotUnavailable PilotStatus = "Unavailable"
)

// ParsePilotStatus validates a raw status string against the known enum.
func ParsePilotStatus(raw string) (PilotStatus, error) {
	switch s := PilotStatus(strings.TrimSpace(raw)); s {
	case PilotAvailable, PilotBusy, PilotOnLeave, PilotUnavailable:
		return s, nil
	default:
		return "", fmt.Errorf("unknown pilot status %q: %w", raw, ErrInvalidStatus)
	}
}

// DroneStatus enumerates the fleet states a drone can be in.
type DroneStatus string

const (
	DroneAvailable   DroneStatus = "Available"
	DroneDeployed    DroneStatus = "Deployed"
	DroneMaintenance DroneStatus = "Maintenance"
)

// ParseDroneStatus validates a raw status string against the known enum.
func ParseDroneStatus(raw string) (DroneStatus, error) {
	switch s := DroneStatus(strings.TrimSpace(raw)); s {
	case DroneAvailable, DroneDeployed, DroneMaintenance:
		return s, nil
	default:
		return "", fmt.Errorf("unknown drone status %q: %w", raw, ErrInvalidStatus)
	}
}

// Mission is one row of the missions table.
type Mission struct {
	ProjectID      string `json:"project_id"`
	RequiredSkills TagSet `json:"required_skills"`
	RequiredCerts  TagSet `json:"required_certs"`
	Location       string `json:"location"`
	Start          Date   `json:"start_date"`
	End            Date   `json:"end_date"`
	// AssignedDrone is empty when no drone is assigned.
	AssignedDrone string `json:"assigned_drone,omitempty"`
}

// Validate checks the window invariant start <= end.
func (m Mission) Validate() error {
	if m.Start.IsZero() || m.End.IsZero() {
		return fmt.Errorf("mission %s: missing start or end date", m.ProjectID)
	}
	if m.Start.After(m.End) {
		return fmt.Errorf("mission %s: start date after end date", m.ProjectID)
	}
	return nil
}

// Pilot is one row of the pilot_roster table.
type Pilot struct {
	Name           string      `json:"name"`
	Skills         TagSet      `json:"skills"`
	Certifications TagSet      `json:"certifications"`
	Status         PilotStatus `json:"status"`
	// CurrentAssignment is a mission project_id, empty when unassigned.
	CurrentAssignment string `json:"current_assignment,omitempty"`
}

// Drone is one row of the drone_fleet table.
type Drone struct {
	ID                string      `json:"drone_id"`
	Capabilities      TagSet      `json:"capabilities"`
	Location          string      `json:"location"`
	Status            DroneStatus `json:"status"`
	CurrentAssignment string      `json:"current_assignment,omitempty"`
	// MaintenanceDue is the zero Date when no maintenance is scheduled.
	MaintenanceDue Date `json:"maintenance_due,omitempty"`
}

// Assignment normalizes the assignment sentinels used by the source tables.
// "–" (en dash), "-" and the empty string all mean unassigned and map to "".
func Assignment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "–" || raw == "-" {
		return ""
	}
	return raw
}

// Assigned reports whether the pilot currently holds a mission.
func (p Pilot) Assigned() bool { return p.CurrentAssignment != "" }

// Assigned reports whether the drone currently holds a mission.
func (d Drone) Assigned() bool { return d.CurrentAssignment != "" }
