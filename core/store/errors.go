package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the named entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrInvalidState is returned when a status update names a value outside
// the recognized enum.
var ErrInvalidState = errors.New("invalid state")

// PartialWriteError reports a drone assignment where the drone record was
// updated but the mission record write failed. It is distinct from a full
// failure so the caller knows to re-run conflict detection, which will
// surface the half-applied assignment.
type PartialWriteError struct {
	DroneID   string
	MissionID string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("drone %s updated but mission %s write failed: %v", e.DroneID, e.MissionID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
