// Package sqlstore persists the coordination tables in SQLite. Set fields
// are stored in their raw comma-separated form, as the tabular source
// delivers them, and parsed once on read through the model row decoders.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

// SQLStore implements store.Store on a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// New opens or creates the database at path and ensures the schema.
func New(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS missions (
        project_id TEXT PRIMARY KEY,
        required_skills TEXT,
        required_certs TEXT,
        location TEXT,
        start_date TEXT,
        end_date TEXT,
        assigned_drone TEXT
    );
    CREATE TABLE IF NOT EXISTS pilot_roster (
        name TEXT PRIMARY KEY,
        skills TEXT,
        certifications TEXT,
        status TEXT,
        current_assignment TEXT
    );
    CREATE TABLE IF NOT EXISTS drone_fleet (
        drone_id TEXT PRIMARY KEY,
        capabilities TEXT,
        location TEXT,
        status TEXT,
        current_assignment TEXT,
        maintenance_due TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

// Missions reads the missions table in insertion order.
func (s *SQLStore) Missions(ctx context.Context) ([]model.Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, required_skills, required_certs, location,
		        start_date, end_date, assigned_drone
		 FROM missions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Mission
	for rows.Next() {
		var id, skills, certs, loc, start, end, drone string
		if err := rows.Scan(&id, &skills, &certs, &loc, &start, &end, &drone); err != nil {
			return nil, err
		}
		m, err := model.MissionFromRow(model.Row{
			"project_id":      id,
			"required_skills": skills,
			"required_certs":  certs,
			"location":        loc,
			"start_date":      start,
			"end_date":        end,
			"assigned_drone":  drone,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Pilots reads the pilot_roster table in insertion order.
func (s *SQLStore) Pilots(ctx context.Context) ([]model.Pilot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, skills, certifications, status, current_assignment
		 FROM pilot_roster ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Pilot
	for rows.Next() {
		var name, skills, certs, status, assignment string
		if err := rows.Scan(&name, &skills, &certs, &status, &assignment); err != nil {
			return nil, err
		}
		p, err := model.PilotFromRow(model.Row{
			"name":               name,
			"skills":             skills,
			"certifications":     certs,
			"status":             status,
			"current_assignment": assignment,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Drones reads the drone_fleet table in insertion order.
func (s *SQLStore) Drones(ctx context.Context) ([]model.Drone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT drone_id, capabilities, location, status, current_assignment, maintenance_due
		 FROM drone_fleet ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Drone
	for rows.Next() {
		var id, caps, loc, status, assignment, due string
		if err := rows.Scan(&id, &caps, &loc, &status, &assignment, &due); err != nil {
			return nil, err
		}
		d, err := model.DroneFromRow(model.Row{
			"drone_id":           id,
			"capabilities":       caps,
			"location":           loc,
			"status":             status,
			"current_assignment": assignment,
			"maintenance_due":    due,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AssignPilot marks the pilot Busy on the mission.
func (s *SQLStore) AssignPilot(ctx context.Context, pilotName, missionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pilot_roster SET status = ?, current_assignment = ? WHERE name = ?`,
		string(model.PilotBusy), missionID, pilotName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pilot %s: %w", pilotName, store.ErrNotFound)
	}
	return nil
}

// AssignDrone updates the drone and mission rows in a single transaction,
// so the two-table write either fully applies or not at all. A failure
// after the drone update rolls back; only a failed rollback can leave the
// half-applied state, which is reported as a PartialWriteError.
func (s *SQLStore) AssignDrone(ctx context.Context, droneID, missionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	rollback := func(cause error) error {
		if rerr := tx.Rollback(); rerr != nil {
			return &store.PartialWriteError{DroneID: droneID, MissionID: missionID, Err: cause}
		}
		return cause
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE drone_fleet SET status = ?, current_assignment = ? WHERE drone_id = ?`,
		string(model.DroneDeployed), missionID, droneID)
	if err != nil {
		return rollback(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return rollback(err)
	} else if n == 0 {
		return rollback(fmt.Errorf("drone %s: %w", droneID, store.ErrNotFound))
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE missions SET assigned_drone = ? WHERE project_id = ?`,
		droneID, missionID)
	if err != nil {
		return rollback(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return rollback(err)
	} else if n == 0 {
		return rollback(fmt.Errorf("mission %s: %w", missionID, store.ErrNotFound))
	}
	return tx.Commit()
}

// UpdatePilotStatus sets the pilot's status field only.
func (s *SQLStore) UpdatePilotStatus(ctx context.Context, pilotName string, status model.PilotStatus) error {
	if _, err := model.ParsePilotStatus(string(status)); err != nil {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidState)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE pilot_roster SET status = ? WHERE name = ?`, string(status), pilotName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pilot %s: %w", pilotName, store.ErrNotFound)
	}
	return nil
}

// UpdateDroneStatus sets the drone's status field only.
func (s *SQLStore) UpdateDroneStatus(ctx context.Context, droneID string, status model.DroneStatus) error {
	if _, err := model.ParseDroneStatus(string(status)); err != nil {
		return fmt.Errorf("%q: %w", status, store.ErrInvalidState)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE drone_fleet SET status = ? WHERE drone_id = ?`, string(status), droneID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("drone %s: %w", droneID, store.ErrNotFound)
	}
	return nil
}

// Seed inserts or replaces the snapshot rows. Set fields are rendered back
// to their comma-separated form.
func (s *SQLStore) Seed(ctx context.Context, snap store.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, m := range snap.Missions {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO missions
			 (project_id, required_skills, required_certs, location, start_date, end_date, assigned_drone)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ProjectID, m.RequiredSkills.String(), m.RequiredCerts.String(),
			m.Location, m.Start.String(), m.End.String(), m.AssignedDrone); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, p := range snap.Pilots {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pilot_roster
			 (name, skills, certifications, status, current_assignment)
			 VALUES (?, ?, ?, ?, ?)`,
			p.Name, p.Skills.String(), p.Certifications.String(),
			string(p.Status), p.CurrentAssignment); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, d := range snap.Drones {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO drone_fleet
			 (drone_id, capabilities, location, status, current_assignment, maintenance_due)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.Capabilities.String(), d.Location,
			string(d.Status), d.CurrentAssignment, d.MaintenanceDue.String()); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

var _ store.Store = (*SQLStore)(nil)
