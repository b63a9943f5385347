package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/droneops/coordinator/config"
	"github.com/droneops/coordinator/infra/store/sqlstore"
	"github.com/droneops/coordinator/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture rosters into the sqlite store",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "fixtures.yaml", "seed data file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Backend != "sqlite" {
		return fmt.Errorf("seed requires the sqlite backend, store is %s", cfg.Store.Backend)
	}
	snap, err := seed.Load(seedFile)
	if err != nil {
		return err
	}
	st, err := sqlstore.New(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Seed(ctx, snap); err != nil {
		return err
	}
	fmt.Printf("seeded %d missions, %d pilots, %d drones\n",
		len(snap.Missions), len(snap.Pilots), len(snap.Drones))
	return nil
}
