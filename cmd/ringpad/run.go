package main

import (
	"fmt"
	"log"
	"time"

	"github.com/phinze/ringpad/internal/app"
	"github.com/phinze/ringpad/internal/config"
	"github.com/phinze/ringpad/internal/device/emulator"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the touch surface and start the game",
	RunE:  runRun,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("library", "", "game shared library (overrides config)")
	cmd.Flags().String("bundle", "", "directory holding the bundled game data (overrides config)")
	cmd.Flags().String("dpad-mode", "", "control output: control, axis or keys (overrides config)")
	cmd.Flags().Bool("no-haptics", false, "disable the press click")
}

// loadRunConfig loads config and applies command-line overrides on top.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("library"); v != "" {
		cfg.Game.Library = v
	}
	if v, _ := flags.GetString("bundle"); v != "" {
		cfg.Game.Bundle = v
	}
	if v, _ := flags.GetString("dpad-mode"); v != "" {
		cfg.DPadMode = v
	}
	if off, _ := flags.GetBool("no-haptics"); off {
		cfg.Haptics.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	log.Println("=== Ring Racers Touch Controls ===")
	log.Println("Close window or press Ctrl+C to exit")

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	coord := a.Coordinator
	emu := emulator.New(coord, "Ring Racers")

	// Run the game in the background; its exit closes the window.
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := coord.Run(ctx); err != nil {
			log.Printf("Game: %v", err)
		}
		emu.Close()
	}()

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}

	log.Println("Shutting down...")
	cancel()
	<-runDone

	// Stop coordinator with timeout
	done := make(chan struct{})
	go func() {
		if err := coord.Stop(); err != nil {
			log.Printf("Stopping game: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
		if err := a.Close(); err != nil {
			log.Printf("Unloading game library: %v", err)
		}
	case <-time.After(3 * time.Second):
		log.Println("Cleanup timed out")
	}
	return nil
}
