// Package events defines the typed events published on the internal bus.
// Subscribers (metrics collector, ops notifier) consume them without
// coupling to the packages that emit them.
package events

import (
	"time"

	"github.com/droneops/coordinator/core/conflict"
)

// MatchEvent records one candidate-filter invocation.
type MatchEvent struct {
	MissionID  string
	Entity     string // "pilot" or "drone"
	Candidates int
	Time       time.Time
}

// AssignmentEvent records a committed (or failed) assignment.
type AssignmentEvent struct {
	AuditID   string
	Entity    string // "pilot" or "drone"
	EntityKey string
	MissionID string
	Err       error
	Time      time.Time
}

// ScanEvent records one full conflict-detection pass.
type ScanEvent struct {
	Conflicts []conflict.Conflict
	Duration  time.Duration
	Time      time.Time
}
