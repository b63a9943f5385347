// Package export renders conflict reports for consumption outside the
// CLI, typically a spreadsheet or a downstream ticketing import.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/droneops/coordinator/core/conflict"
)

// WriteJSON writes the conflict report to w in JSON format.
func WriteJSON(w io.Writer, conflicts []conflict.Conflict) error {
	enc := json.NewEncoder(w)
	return enc.Encode(conflicts)
}

// WriteCSV writes the conflict report to w in CSV format with a header row.
func WriteCSV(w io.Writer, conflicts []conflict.Conflict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "pilot", "drone", "assigned_mission", "conflicting_mission", "issue"}); err != nil {
		return err
	}
	for _, c := range conflicts {
		rec := []string{
			string(c.Kind),
			c.Pilot,
			c.Drone,
			c.AssignedMission,
			c.ConflictingMission,
			c.Issue,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
