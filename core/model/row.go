package model

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a row lacking a structurally required column.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidStatus marks a status value outside the recognized enum.
var ErrInvalidStatus = errors.New("invalid status")

// Row is the raw record shape produced by the record store: column name to
// string value. Set fields arrive as their comma-separated source form and
// are parsed here, once, at the boundary.
type Row map[string]string

func (r Row) require(field string) (string, error) {
	v, ok := r[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return v, nil
}

// MissionFromRow decodes a missions row. Dates must parse and the window
// invariant must hold; a structurally invalid row is a hard error.
func MissionFromRow(r Row) (Mission, error) {
	id, err := r.require("project_id")
	if err != nil {
		return Mission{}, err
	}
	start, err := ParseDate(r["start_date"])
	if err != nil {
		return Mission{}, fmt.Errorf("mission %s: %w", id, err)
	}
	end, err := ParseDate(r["end_date"])
	if err != nil {
		return Mission{}, fmt.Errorf("mission %s: %w", id, err)
	}
	m := Mission{
		ProjectID:      id,
		RequiredSkills: ParseTagSet(r["required_skills"]),
		RequiredCerts:  ParseTagSet(r["required_certs"]),
		Location:       r["location"],
		Start:          start,
		End:            end,
		AssignedDrone:  Assignment(r["assigned_drone"]),
	}
	if err := m.Validate(); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// PilotFromRow decodes a pilot_roster row.
func PilotFromRow(r Row) (Pilot, error) {
	name, err := r.require("name")
	if err != nil {
		return Pilot{}, err
	}
	status, err := ParsePilotStatus(r["status"])
	if err != nil {
		return Pilot{}, fmt.Errorf("pilot %s: %w", name, err)
	}
	return Pilot{
		Name:              name,
		Skills:            ParseTagSet(r["skills"]),
		Certifications:    ParseTagSet(r["certifications"]),
		Status:            status,
		CurrentAssignment: Assignment(r["current_assignment"]),
	}, nil
}

// DroneFromRow decodes a drone_fleet row.
func DroneFromRow(r Row) (Drone, error) {
	id, err := r.require("drone_id")
	if err != nil {
		return Drone{}, err
	}
	status, err := ParseDroneStatus(r["status"])
	if err != nil {
		return Drone{}, fmt.Errorf("drone %s: %w", id, err)
	}
	due, err := ParseDate(r["maintenance_due"])
	if err != nil {
		return Drone{}, fmt.Errorf("drone %s: %w", id, err)
	}
	return Drone{
		ID:                id,
		Capabilities:      ParseTagSet(r["capabilities"]),
		Location:          r["location"],
		Status:            status,
		CurrentAssignment: Assignment(r["current_assignment"]),
		MaintenanceDue:    due,
	}, nil
}
