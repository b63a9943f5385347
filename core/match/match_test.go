package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/droneops/coordinator/core/model"
)

func mission(skills, location string) model.Mission {
	return model.Mission{
		ProjectID:      "M1",
		RequiredSkills: model.ParseTagSet(skills),
		Location:       location,
		Start:          model.MustDate("2024-01-01"),
		End:            model.MustDate("2024-01-05"),
	}
}

func pilot(name, skills string, status model.PilotStatus) model.Pilot {
	return model.Pilot{Name: name, Skills: model.ParseTagSet(skills), Status: status}
}

func TestPilots_SkillSuperset(t *testing.T) {
	m := mission("thermal,mapping", "NYC")
	pilots := []model.Pilot{
		pilot("Alice", "thermal,mapping,night", model.PilotAvailable),
		pilot("Bob", "thermal", model.PilotAvailable),
	}
	assert.Equal(t, []string{"Alice"}, Pilots(m, pilots))
}

func TestPilots_OnlyAvailable(t *testing.T) {
	m := mission("thermal", "NYC")
	pilots := []model.Pilot{
		pilot("Alice", "thermal", model.PilotBusy),
		pilot("Bob", "thermal", model.PilotOnLeave),
		pilot("Cara", "thermal", model.PilotUnavailable),
		pilot("Dan", "thermal", model.PilotAvailable),
	}
	assert.Equal(t, []string{"Dan"}, Pilots(m, pilots))
}

func TestPilots_CaseInsensitive(t *testing.T) {
	m := mission("Thermal, MAPPING", "NYC")
	pilots := []model.Pilot{pilot("Alice", "thermal,mapping", model.PilotAvailable)}
	assert.Equal(t, []string{"Alice"}, Pilots(m, pilots))
}

func TestPilots_PreservesInputOrder(t *testing.T) {
	m := mission("", "NYC")
	pilots := []model.Pilot{
		pilot("Zoe", "", model.PilotAvailable),
		pilot("Alice", "", model.PilotAvailable),
		pilot("Mike", "", model.PilotAvailable),
	}
	assert.Equal(t, []string{"Zoe", "Alice", "Mike"}, Pilots(m, pilots))
}

func TestPilots_NoMatchIsEmptyNotError(t *testing.T) {
	m := mission("lidar", "NYC")
	pilots := []model.Pilot{pilot("Alice", "thermal", model.PilotAvailable)}
	assert.Empty(t, Pilots(m, pilots))
}

func drone(id, caps, location string, status model.DroneStatus, due string) model.Drone {
	return model.Drone{
		ID:             id,
		Capabilities:   model.ParseTagSet(caps),
		Location:       location,
		Status:         status,
		MaintenanceDue: model.MustDate(due),
	}
}

func TestDrones_AllCriteria(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := mission("thermal,mapping", "NYC")
	drones := []model.Drone{
		drone("D1", "thermal,mapping", "nyc", model.DroneAvailable, "2099-01-01"),
		drone("D2", "thermal,mapping", "nyc", model.DroneAvailable, "2001-01-01"),
		drone("D3", "thermal", "nyc", model.DroneAvailable, "2099-01-01"),
		drone("D4", "thermal,mapping", "Newark", model.DroneAvailable, "2099-01-01"),
		drone("D5", "thermal,mapping", "nyc", model.DroneDeployed, "2099-01-01"),
		drone("D6", "thermal,mapping", "nyc", model.DroneMaintenance, "2099-01-01"),
	}
	assert.Equal(t, []string{"D1"}, Drones(m, drones, now))
}

func TestDrones_NoMaintenanceDueIsEligible(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := mission("thermal", "NYC")
	d := drone("D1", "thermal", "NYC", model.DroneAvailable, "")
	assert.Equal(t, []string{"D1"}, Drones(m, []model.Drone{d}, now))
}

func TestDrones_MaintenanceDueTodayExcluded(t *testing.T) {
	// Strictly in the future: a deadline on the current day disqualifies.
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	m := mission("thermal", "NYC")
	d := drone("D1", "thermal", "NYC", model.DroneAvailable, "2024-06-01")
	assert.Empty(t, Drones(m, []model.Drone{d}, now))
}

func TestDrones_WholeTokenCapabilityMatch(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := mission("thermal", "NYC")
	// "thermal imaging" must not satisfy a "thermal" requirement.
	d := drone("D1", "thermal imaging", "NYC", model.DroneAvailable, "")
	assert.Empty(t, Drones(m, []model.Drone{d}, now))
}

func TestFilters_Idempotent(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := mission("thermal", "NYC")
	pilots := []model.Pilot{pilot("Alice", "thermal", model.PilotAvailable)}
	drones := []model.Drone{drone("D1", "thermal", "NYC", model.DroneAvailable, "2099-01-01")}

	assert.Equal(t, Pilots(m, pilots), Pilots(m, pilots))
	assert.Equal(t, Drones(m, drones, now), Drones(m, drones, now))
}
