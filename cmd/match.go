package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/droneops/coordinator/app"
	"github.com/droneops/coordinator/config"
	"github.com/droneops/coordinator/core/coord"
)

var (
	matchMissionID string
	matchDrones    bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "List eligible pilots or drones for a mission",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchMissionID, "mission", "m", "", "mission project id")
	matchCmd.Flags().BoolVar(&matchDrones, "drones", false, "match drones instead of pilots")
	_ = matchCmd.MarkFlagRequired("mission")
	rootCmd.AddCommand(matchCmd)
}

// openCoordinator builds a store-backed coordinator for one-shot commands.
func openCoordinator(ctx context.Context) (*coord.Coordinator, func() error, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	st, closeFn, err := app.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return coord.New(st, nil, nil), closeFn, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, closeFn, err := openCoordinator(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	var candidates []string
	if matchDrones {
		candidates, err = c.DroneCandidates(ctx, matchMissionID)
	} else {
		candidates, err = c.PilotCandidates(ctx, matchMissionID)
	}
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Printf("%s no candidates for mission %s\n", color.New(color.FgYellow).Sprint("∅"), matchMissionID)
		return nil
	}
	for _, name := range candidates {
		fmt.Printf("  %s %s\n", color.New(color.FgGreen).Sprint("✓"), name)
	}
	return nil
}
