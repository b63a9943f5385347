package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droneops/coordinator/core/conflict"
	"github.com/droneops/coordinator/core/coord"
	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
	"github.com/droneops/coordinator/infra/logger"
	"github.com/droneops/coordinator/infra/store/memstore"
)

func testServer(t *testing.T) (*httptest.Server, *memstore.MemStore) {
	t.Helper()
	st := memstore.New()
	st.Seed(store.Snapshot{
		Missions: []model.Mission{{
			ProjectID:      "M1",
			RequiredSkills: model.ParseTagSet("thermal"),
			Location:       "NYC",
			Start:          model.MustDate("2024-01-01"),
			End:            model.MustDate("2024-01-05"),
		}},
		Pilots: []model.Pilot{{Name: "Alice", Skills: model.ParseTagSet("thermal"), Status: model.PilotAvailable}},
		Drones: []model.Drone{{ID: "D1", Capabilities: model.ParseTagSet("thermal"), Location: "nyc", Status: model.DroneAvailable}},
	})
	h := New(coord.New(st, nil, nil), logger.NopLogger{})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, st
}

func TestGetMissions(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/missions")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var missions []model.Mission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&missions))
	require.Len(t, missions, 1)
	assert.Equal(t, "M1", missions[0].ProjectID)
}

func TestGetCandidates(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/api/missions/M1/pilots")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pilots []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pilots))
	_ = resp.Body.Close()
	assert.Equal(t, []string{"Alice"}, pilots)

	resp, err = http.Get(srv.URL + "/api/missions/M1/drones")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var drones []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&drones))
	_ = resp.Body.Close()
	assert.Equal(t, []string{"D1"}, drones)
}

func TestGetCandidates_UnknownMissionIs404(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/missions/NOPE/pilots")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssignPilotRoundTrip(t *testing.T) {
	srv, st := testServer(t)

	body := `{"pilot":"Alice","mission_id":"M1"}`
	resp, err := http.Post(srv.URL+"/api/assignments/pilot", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	pilots, err := st.Pilots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.PilotBusy, pilots[0].Status)
}

func TestAssignPilot_Validation(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Post(srv.URL+"/api/assignments/pilot", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatus(t *testing.T) {
	srv, st := testServer(t)

	body := `{"entity":"drone","key":"D1","status":"Maintenance"}`
	resp, err := http.Post(srv.URL+"/api/status", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	drones, err := st.Drones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DroneMaintenance, drones[0].Status)
}

func TestUpdateStatus_InvalidStateIs422(t *testing.T) {
	srv, _ := testServer(t)
	body := `{"entity":"drone","key":"D1","status":"Broken"}`
	resp, err := http.Post(srv.URL+"/api/status", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestConflictScan(t *testing.T) {
	srv, st := testServer(t)
	require.NoError(t, st.AssignPilot(context.Background(), "Alice", "M1"))

	resp, err := http.Get(srv.URL + "/api/conflicts")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conflicts []conflict.Conflict
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conflicts))
	assert.Empty(t, conflicts)
}

// partialStore simulates a backend whose drone write landed but whose
// mission write failed.
type partialStore struct {
	*memstore.MemStore
}

func (p *partialStore) AssignDrone(ctx context.Context, droneID, missionID string) error {
	return &store.PartialWriteError{DroneID: droneID, MissionID: missionID, Err: errors.New("mission write timed out")}
}

func TestAssignDrone_PartialWriteIs409(t *testing.T) {
	st := &partialStore{MemStore: memstore.New()}
	h := New(coord.New(st, nil, nil), logger.NopLogger{})
	srv := httptest.NewServer(h)
	defer srv.Close()

	body := `{"drone_id":"D1","mission_id":"M1"}`
	resp, err := http.Post(srv.URL+"/api/assignments/drone", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var eb struct {
		Error  string `json:"error"`
		Rescan bool   `json:"rescan_recommended"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eb))
	assert.True(t, eb.Rescan, "partial write must tell the caller to re-scan")
}
