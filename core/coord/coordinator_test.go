package coord

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droneops/coordinator/core/events"
	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
	"github.com/droneops/coordinator/infra/store/memstore"
	"github.com/droneops/coordinator/internal/eventbus"
)

func fixtureStore() *memstore.MemStore {
	s := memstore.New()
	s.Seed(store.Snapshot{
		Missions: []model.Mission{{
			ProjectID:      "M1",
			RequiredSkills: model.ParseTagSet("thermal,mapping"),
			Location:       "NYC",
			Start:          model.MustDate("2024-01-01"),
			End:            model.MustDate("2024-01-05"),
		}},
		Pilots: []model.Pilot{
			{Name: "Alice", Skills: model.ParseTagSet("thermal,mapping,night"), Status: model.PilotAvailable},
			{Name: "Bob", Skills: model.ParseTagSet("thermal"), Status: model.PilotAvailable},
		},
		Drones: []model.Drone{
			{ID: "D1", Capabilities: model.ParseTagSet("thermal,mapping"), Location: "nyc",
				Status: model.DroneAvailable, MaintenanceDue: model.MustDate("2099-01-01")},
			{ID: "D2", Capabilities: model.ParseTagSet("thermal,mapping"), Location: "nyc",
				Status: model.DroneAvailable, MaintenanceDue: model.MustDate("2001-01-01")},
		},
	})
	return s
}

func TestPilotCandidates(t *testing.T) {
	c := New(fixtureStore(), nil, nil)
	names, err := c.PilotCandidates(context.Background(), "M1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, names)
}

func TestDroneCandidates_MaintenanceWindow(t *testing.T) {
	c := New(fixtureStore(), nil, nil)
	c.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	ids, err := c.DroneCandidates(context.Background(), "M1")
	require.NoError(t, err)
	assert.Equal(t, []string{"D1"}, ids)
}

func TestCandidates_UnknownMission(t *testing.T) {
	c := New(fixtureStore(), nil, nil)
	_, err := c.PilotCandidates(context.Background(), "MX")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssignPilot_PublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := New(fixtureStore(), bus, nil)
	require.NoError(t, c.AssignPilot(context.Background(), "Alice", "M1"))

	select {
	case ev := <-sub:
		ae, ok := ev.(events.AssignmentEvent)
		require.True(t, ok)
		assert.Equal(t, "pilot", ae.Entity)
		assert.Equal(t, "Alice", ae.EntityKey)
		assert.Equal(t, "M1", ae.MissionID)
		assert.NoError(t, ae.Err)
		assert.NotEmpty(t, ae.AuditID)
	case <-time.After(time.Second):
		t.Fatal("no assignment event published")
	}
}

func TestAssignDrone_FailureStillPublishes(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := New(fixtureStore(), bus, nil)
	err := c.AssignDrone(context.Background(), "DX", "M1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	select {
	case ev := <-sub:
		ae, ok := ev.(events.AssignmentEvent)
		require.True(t, ok)
		assert.Error(t, ae.Err)
	case <-time.After(time.Second):
		t.Fatal("no assignment event published")
	}
}

func TestScan_PublishesScanEvent(t *testing.T) {
	st := fixtureStore()
	require.NoError(t, st.AssignPilot(context.Background(), "Alice", "M1"))

	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := New(st, bus, nil)
	conflicts, err := c.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conflicts, "single mission cannot double-book")

	select {
	case ev := <-sub:
		_, ok := ev.(events.ScanEvent)
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("no scan event published")
	}
}
