package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phinze/ringpad/internal/app"
	"github.com/phinze/ringpad/internal/config"
	"github.com/phinze/ringpad/internal/native"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, game home, and game library",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Ringpad Status ===")
	fmt.Println()

	allOK := true

	// Config file
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found (using defaults)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		fmt.Println()
		fmt.Println("Some checks failed. Run 'ringpad setup' to configure.")
		return nil
	}
	fmt.Printf("  D-pad mode: %s\n", cfg.Mode())
	if cfg.Haptics.Enabled {
		fmt.Printf("  Haptics: %d ms\n", cfg.Haptics.PulseMS)
	} else {
		fmt.Println("  Haptics: off")
	}
	fmt.Println()

	// Game home
	s := app.NewStager(cfg)
	fmt.Printf("Game home: %s\n", s.Dest())
	if _, err := os.Stat(s.Dest()); err != nil {
		fmt.Println("  Status: NOT FOUND")
		allOK = false
	}
	if s.Staged() {
		fmt.Println("  Bundled data: staged")
	} else if cfg.Game.Bundle != "" {
		fmt.Printf("  Bundled data: not staged yet (from %s)\n", cfg.Game.Bundle)
	}

	files, err := s.GameFiles()
	switch {
	case err != nil:
		fmt.Printf("  Game files: %v\n", err)
		allOK = false
	case len(files) == 0:
		fmt.Println("  Game files: NONE")
		allOK = false
	default:
		fmt.Printf("  Game files: %s\n", strings.Join(files, ", "))
	}
	fmt.Println()

	// Game library
	fmt.Println("Game library:")
	if cfg.Game.Library == "" {
		fmt.Println("  Path: NOT SET (input is only logged)")
		allOK = false
	} else {
		fmt.Printf("  Path: %s\n", cfg.Game.Library)
		lib, err := native.Open(cfg.Game.Library, cfg.Native)
		if err != nil {
			fmt.Printf("  Load error: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  Entry point: %s\n", cfg.Native.Main)
			if missing := lib.Missing(); len(missing) > 0 {
				fmt.Printf("  Not exported: %s\n", strings.Join(missing, ", "))
			}
			lib.Close()
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'ringpad setup' to configure.")
	}

	return nil
}
