// Package match implements the candidate filters: pure functions that
// select the pilots and drones eligible for a mission. Filters never
// mutate their input and an empty result is a normal outcome, not an
// error.
package match

import (
	"time"

	"github.com/droneops/coordinator/core/model"
)

// Pilots returns the names of pilots eligible for the mission: status
// Available and skills covering every required skill. Order follows the
// input slice.
func Pilots(mission model.Mission, pilots []model.Pilot) []string {
	var out []string
	for _, p := range pilots {
		if p.Status != model.PilotAvailable {
			continue
		}
		if !p.Skills.ContainsAll(mission.RequiredSkills) {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

// Drones returns the ids of drones eligible for the mission. A drone
// qualifies when it is Available, its capabilities cover every required
// skill as whole tokens, its location matches the mission location, and
// any scheduled maintenance is strictly after now. Order follows the
// input slice.
func Drones(mission model.Mission, drones []model.Drone, now time.Time) []string {
	today := model.DateOf(now)
	var out []string
	for _, d := range drones {
		if d.Status != model.DroneAvailable {
			continue
		}
		if !d.Capabilities.ContainsAll(mission.RequiredSkills) {
			continue
		}
		if !model.EqualText(d.Location, mission.Location) {
			continue
		}
		if !d.MaintenanceDue.IsZero() && !d.MaintenanceDue.After(today) {
			continue
		}
		out = append(out, d.ID)
	}
	return out
}
