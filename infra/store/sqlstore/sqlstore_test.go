package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

func open(t *testing.T) *SQLStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "coord.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func snapshot() store.Snapshot {
	return store.Snapshot{
		Missions: []model.Mission{{
			ProjectID:      "M1",
			RequiredSkills: model.ParseTagSet("thermal,mapping"),
			RequiredCerts:  model.ParseTagSet("faa107"),
			Location:       "NYC",
			Start:          model.MustDate("2024-01-01"),
			End:            model.MustDate("2024-01-05"),
		}},
		Pilots: []model.Pilot{{
			Name:   "Alice",
			Skills: model.ParseTagSet("thermal,mapping,night"),
			Status: model.PilotAvailable,
		}},
		Drones: []model.Drone{{
			ID:             "D1",
			Capabilities:   model.ParseTagSet("thermal,mapping"),
			Location:       "nyc",
			Status:         model.DroneAvailable,
			MaintenanceDue: model.MustDate("2099-01-01"),
		}},
	}
}

func TestSeedAndReadBack(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))

	missions, err := s.Missions(ctx)
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, "M1", missions[0].ProjectID)
	assert.True(t, missions[0].RequiredSkills.Contains("thermal"))
	assert.Equal(t, "2024-01-05", missions[0].End.String())

	pilots, err := s.Pilots(ctx)
	require.NoError(t, err)
	require.Len(t, pilots, 1)
	assert.Equal(t, model.PilotAvailable, pilots[0].Status)

	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	require.Len(t, drones, 1)
	assert.Equal(t, "2099-01-01", drones[0].MaintenanceDue.String())
}

func TestSeed_Upsert(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))
	require.NoError(t, s.Seed(ctx, snapshot()))

	pilots, err := s.Pilots(ctx)
	require.NoError(t, err)
	assert.Len(t, pilots, 1, "seeding twice must not duplicate rows")
}

func TestAssignPilot(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))

	require.NoError(t, s.AssignPilot(ctx, "Alice", "M1"))
	pilots, err := s.Pilots(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PilotBusy, pilots[0].Status)
	assert.Equal(t, "M1", pilots[0].CurrentAssignment)

	assert.ErrorIs(t, s.AssignPilot(ctx, "Nobody", "M1"), store.ErrNotFound)
}

func TestAssignDrone_Transactional(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))

	require.NoError(t, s.AssignDrone(ctx, "D1", "M1"))

	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DroneDeployed, drones[0].Status)
	missions, err := s.Missions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "D1", missions[0].AssignedDrone)
}

func TestAssignDrone_MissingMissionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))

	assert.ErrorIs(t, s.AssignDrone(ctx, "D1", "MX"), store.ErrNotFound)

	// The drone update from the failed transaction must not be visible.
	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DroneAvailable, drones[0].Status)
	assert.Empty(t, drones[0].CurrentAssignment)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Seed(ctx, snapshot()))

	require.NoError(t, s.UpdateDroneStatus(ctx, "D1", model.DroneMaintenance))
	drones, err := s.Drones(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DroneMaintenance, drones[0].Status)

	assert.ErrorIs(t, s.UpdateDroneStatus(ctx, "D1", "Broken"), store.ErrInvalidState)
	assert.ErrorIs(t, s.UpdatePilotStatus(ctx, "Nobody", model.PilotBusy), store.ErrNotFound)
}
