package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/droneops/coordinator/core/conflict"
	"github.com/droneops/coordinator/pkg/export"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Scan all records for scheduling conflicts",
	RunE:  runConflicts,
}

var conflictsFormat string

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsFormat, "output", "o", "text", "output format: text, json or csv")
	rootCmd.AddCommand(conflictsCmd)
}

func kindLabel(k conflict.Kind) string {
	switch k {
	case conflict.KindPilotDoubleBooking, conflict.KindDroneDoubleBooking:
		return color.New(color.FgRed).Sprint(string(k))
	case conflict.KindDanglingAssignment:
		return color.New(color.FgHiRed).Sprint(string(k))
	default:
		return color.New(color.FgYellow).Sprint(string(k))
	}
}

func runConflicts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, closeFn, err := openCoordinator(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	conflicts, err := c.Scan(ctx)
	if err != nil {
		return err
	}
	switch conflictsFormat {
	case "json":
		return export.WriteJSON(os.Stdout, conflicts)
	case "csv":
		return export.WriteCSV(os.Stdout, conflicts)
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", conflictsFormat)
	}
	if len(conflicts) == 0 {
		fmt.Printf("%s no conflicts found\n", color.New(color.FgGreen).Sprint("✓"))
		return nil
	}
	for _, cf := range conflicts {
		subject := cf.Pilot
		if subject == "" {
			subject = cf.Drone
		}
		fmt.Printf("  %s %-12s %s\n", kindLabel(cf.Kind), subject, cf.Issue)
	}
	fmt.Printf("%d conflicts\n", len(conflicts))
	return nil
}
