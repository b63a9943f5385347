package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Propose candidates for a mission and commit a confirmed match",
}

var assignPilotCmd = &cobra.Command{
	Use:   "pilot <mission-id>",
	Short: "Assign a pilot to a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignPilot,
}

var assignDroneCmd = &cobra.Command{
	Use:   "drone <mission-id>",
	Short: "Assign a drone to a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignDrone,
}

func init() {
	assignCmd.AddCommand(assignPilotCmd)
	assignCmd.AddCommand(assignDroneCmd)
	rootCmd.AddCommand(assignCmd)
}

// pick presents the candidates and reads one selection from stdin. The
// commit only happens after this explicit confirmation.
func pick(candidates []string) (string, error) {
	for i, name := range candidates {
		fmt.Printf("  [%d] %s\n", i+1, name)
	}
	fmt.Print("select candidate (empty to abort): ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return "", nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(candidates) {
		return "", fmt.Errorf("invalid selection %q", line)
	}
	return candidates[n-1], nil
}

func runAssignPilot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	missionID := args[0]
	c, closeFn, err := openCoordinator(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	candidates, err := c.PilotCandidates(ctx, missionID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("no eligible pilots")
		return nil
	}
	selected, err := pick(candidates)
	if err != nil || selected == "" {
		return err
	}
	if err := c.AssignPilot(ctx, selected, missionID); err != nil {
		return err
	}
	fmt.Printf("%s %s assigned to %s\n", color.New(color.FgGreen).Sprint("✓"), selected, missionID)
	return nil
}

func runAssignDrone(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	missionID := args[0]
	c, closeFn, err := openCoordinator(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	candidates, err := c.DroneCandidates(ctx, missionID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("no eligible drones")
		return nil
	}
	selected, err := pick(candidates)
	if err != nil || selected == "" {
		return err
	}
	if err := c.AssignDrone(ctx, selected, missionID); err != nil {
		return err
	}
	fmt.Printf("%s %s assigned to %s\n", color.New(color.FgGreen).Sprint("✓"), selected, missionID)
	return nil
}
