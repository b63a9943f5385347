package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

func seeded() *MemStore {
	s := New()
	s.Seed(store.Snapshot{
		Missions: []model.Mission{{
			ProjectID: "M1",
			Start:     model.MustDate("2024-01-01"),
			End:       model.MustDate("2024-01-05"),
			Location:  "NYC",
		}},
		Pilots: []model.Pilot{{
			Name:   "Alice",
			Skills: model.ParseTagSet("thermal"),
			Status: model.PilotAvailable,
		}},
		Drones: []model.Drone{{
			ID:           "D1",
			Capabilities: model.ParseTagSet("thermal"),
			Location:     "NYC",
			Status:       model.DroneAvailable,
		}},
	})
	return s
}

func TestAssignPilot(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	require.NoError(t, s.AssignPilot(ctx, "Alice", "M1"))
	pilots, err := s.Pilots(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PilotBusy, pilots[0].Status)
	assert.Equal(t, "M1", pilots[0].CurrentAssignment)

	// Retrying with the same arguments is a no-op, not an error.
	require.NoError(t, s.AssignPilot(ctx, "Alice", "M1"))

	err = s.AssignPilot(ctx, "Nobody", "M1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssignDrone_UpdatesBothRecords(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	require.NoError(t, s.AssignDrone(ctx, "D1", "M1"))

	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DroneDeployed, drones[0].Status)
	assert.Equal(t, "M1", drones[0].CurrentAssignment)

	missions, err := s.Missions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "D1", missions[0].AssignedDrone)
}

func TestAssignDrone_NotFound(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	assert.ErrorIs(t, s.AssignDrone(ctx, "DX", "M1"), store.ErrNotFound)
	assert.ErrorIs(t, s.AssignDrone(ctx, "D1", "MX"), store.ErrNotFound)

	// The failed mission lookup must not have touched the drone.
	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DroneAvailable, drones[0].Status)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	require.NoError(t, s.UpdatePilotStatus(ctx, "Alice", model.PilotOnLeave))
	pilots, _ := s.Pilots(ctx)
	assert.Equal(t, model.PilotOnLeave, pilots[0].Status)

	assert.ErrorIs(t, s.UpdatePilotStatus(ctx, "Alice", "Retired"), store.ErrInvalidState)
	assert.ErrorIs(t, s.UpdatePilotStatus(ctx, "Nobody", model.PilotBusy), store.ErrNotFound)

	require.NoError(t, s.UpdateDroneStatus(ctx, "D1", model.DroneMaintenance))
	drones, _ := s.Drones(ctx)
	assert.Equal(t, model.DroneMaintenance, drones[0].Status)
	assert.ErrorIs(t, s.UpdateDroneStatus(ctx, "D1", "Broken"), store.ErrInvalidState)
}

func TestReads_ReturnIsolatedSnapshots(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	pilots, err := s.Pilots(ctx)
	require.NoError(t, err)
	pilots[0].Skills["lidar"] = struct{}{}

	again, err := s.Pilots(ctx)
	require.NoError(t, err)
	assert.False(t, again[0].Skills.Contains("lidar"), "snapshot mutation must not leak into the store")
}
