// Package cached wraps a record store with a time-bounded read cache.
// Reads within the staleness window are served from memory; writes pass
// through to the backing store and invalidate the cache immediately. The
// cache is an explicitly constructed value injected where needed, never a
// process-wide singleton.
package cached

import (
	"context"
	"sync"
	"time"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

// DefaultTTL is the staleness window applied when none is configured.
const DefaultTTL = 30 * time.Second

// Store decorates a store.Store with read caching. Cached reads can be
// stale by up to the TTL; conflict detection compensates for decisions
// made on stale data, so the window is a latency/consistency trade the
// caller opts into.
type Store struct {
	inner store.Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	missions  []model.Mission
	pilots    []model.Pilot
	drones    []model.Drone
	fetchedAt time.Time
}

// New wraps inner with a cache holding reads for ttl. A non-positive ttl
// falls back to DefaultTTL.
func New(inner store.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{inner: inner, ttl: ttl, now: time.Now}
}

func (s *Store) fresh() bool {
	return !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl
}

func (s *Store) refill(ctx context.Context) error {
	missions, err := s.inner.Missions(ctx)
	if err != nil {
		return err
	}
	pilots, err := s.inner.Pilots(ctx)
	if err != nil {
		return err
	}
	drones, err := s.inner.Drones(ctx)
	if err != nil {
		return err
	}
	s.missions, s.pilots, s.drones = missions, pilots, drones
	s.fetchedAt = s.now()
	return nil
}

// Missions serves the missions table, refreshing all three tables when the
// cache is stale so one snapshot stays internally consistent.
func (s *Store) Missions(ctx context.Context) ([]model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh() {
		if err := s.refill(ctx); err != nil {
			return nil, err
		}
	}
	return append([]model.Mission(nil), s.missions...), nil
}

// Pilots serves the pilot_roster table.
func (s *Store) Pilots(ctx context.Context) ([]model.Pilot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh() {
		if err := s.refill(ctx); err != nil {
			return nil, err
		}
	}
	return append([]model.Pilot(nil), s.pilots...), nil
}

// Drones serves the drone_fleet table.
func (s *Store) Drones(ctx context.Context) ([]model.Drone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh() {
		if err := s.refill(ctx); err != nil {
			return nil, err
		}
	}
	return append([]model.Drone(nil), s.drones...), nil
}

// Invalidate drops the cached tables; the next read refills them.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// AssignPilot writes through and invalidates the cache.
func (s *Store) AssignPilot(ctx context.Context, pilotName, missionID string) error {
	err := s.inner.AssignPilot(ctx, pilotName, missionID)
	s.Invalidate()
	return err
}

// AssignDrone writes through and invalidates the cache. Partial-write
// errors from the backing store pass through untouched so callers can
// distinguish them.
func (s *Store) AssignDrone(ctx context.Context, droneID, missionID string) error {
	err := s.inner.AssignDrone(ctx, droneID, missionID)
	s.Invalidate()
	return err
}

// UpdatePilotStatus writes through and invalidates the cache.
func (s *Store) UpdatePilotStatus(ctx context.Context, pilotName string, status model.PilotStatus) error {
	err := s.inner.UpdatePilotStatus(ctx, pilotName, status)
	s.Invalidate()
	return err
}

// UpdateDroneStatus writes through and invalidates the cache.
func (s *Store) UpdateDroneStatus(ctx context.Context, droneID string, status model.DroneStatus) error {
	err := s.inner.UpdateDroneStatus(ctx, droneID, status)
	s.Invalidate()
	return err
}

var _ store.Store = (*Store)(nil)
