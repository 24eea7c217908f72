package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/ringpad/internal/config"
	"github.com/phinze/ringpad/internal/sink"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: locate the game and write config",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Ringpad Setup ===")
	fmt.Println()

	// Load existing config as defaults
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ignoring existing config: %v\n", err)
		cfg = config.Defaults()
	}

	fmt.Println("-- Game --")
	cfg.Game.Home = prompt(reader, "Game home", cfg.Game.Home)
	cfg.Game.Library = prompt(reader, "Game library (empty to only log input)", cfg.Game.Library)
	cfg.Game.Bundle = prompt(reader, "Bundled data directory", cfg.Game.Bundle)
	fmt.Println()

	fmt.Println("-- Controls --")
	for {
		mode := prompt(reader, "Output mode (control, axis or keys)", cfg.DPadMode)
		if _, err := sink.ParseMode(mode); err != nil {
			fmt.Printf("  -> %v\n", err)
			continue
		}
		cfg.DPadMode = mode
		break
	}
	haptics := prompt(reader, "Press click (yes/no)", yesNo(cfg.Haptics.Enabled))
	cfg.Haptics.Enabled = strings.HasPrefix(strings.ToLower(haptics), "y")
	if cfg.Haptics.Enabled {
		ms := prompt(reader, "Click length in ms", strconv.Itoa(cfg.Haptics.PulseMS))
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			cfg.Haptics.PulseMS = n
		} else {
			fmt.Println("  -> Kept existing")
		}
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Write config file
	if err := config.WriteConfigFile(cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", config.DefaultConfigPath())
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
