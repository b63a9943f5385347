// Package seed loads fixture rosters from a YAML file into a store
// snapshot. Rows use the raw tabular field names, so fixtures look like
// the source tables they stand in for.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

type file struct {
	Missions []map[string]string `yaml:"missions"`
	Pilots   []map[string]string `yaml:"pilots"`
	Drones   []map[string]string `yaml:"drones"`
}

// Load parses the seed file at path into a snapshot. Structurally invalid
// rows fail the load; a seed file is developer input and should be fixed,
// not skipped.
func Load(path string) (store.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return store.Snapshot{}, err
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return store.Snapshot{}, fmt.Errorf("parse seed file: %w", err)
	}
	var snap store.Snapshot
	for i, row := range f.Missions {
		m, err := model.MissionFromRow(model.Row(row))
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("seed mission %d: %w", i, err)
		}
		snap.Missions = append(snap.Missions, m)
	}
	for i, row := range f.Pilots {
		p, err := model.PilotFromRow(model.Row(row))
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("seed pilot %d: %w", i, err)
		}
		snap.Pilots = append(snap.Pilots, p)
	}
	for i, row := range f.Drones {
		d, err := model.DroneFromRow(model.Row(row))
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("seed drone %d: %w", i, err)
		}
		snap.Drones = append(snap.Drones, d)
	}
	return snap, nil
}
