package main

import (
	"fmt"

	"github.com/phinze/ringpad/internal/app"
	"github.com/phinze/ringpad/internal/config"
	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Copy the bundled game data into the game home",
	RunE:  runStage,
}

func init() {
	stageCmd.Flags().String("bundle", "", "directory holding the bundled game data (overrides config)")
}

func runStage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("bundle"); v != "" {
		cfg.Game.Bundle = v
	}
	if cfg.Game.Bundle == "" {
		return fmt.Errorf("no bundle configured; pass --bundle or run 'ringpad setup'")
	}

	ctx, cancel := signalContext()
	defer cancel()

	s := app.NewStager(cfg)
	if err := s.EnsureDirs(); err != nil {
		return err
	}
	res, err := s.Stage(ctx)
	if err != nil {
		return err
	}

	if res.AlreadyStaged {
		fmt.Printf("Already staged in %s\n", s.Dest())
		return nil
	}
	fmt.Printf("Copied %d files to %s (%d already present)\n", res.Copied, s.Dest(), res.Skipped)
	return nil
}
