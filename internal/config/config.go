// Package config provides configuration loading from a YAML file and
// environment variables. Environment variables take precedence for dev
// flexibility.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phinze/ringpad/internal/native"
	"github.com/phinze/ringpad/internal/sink"
	"github.com/phinze/ringpad/internal/touch"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration, assembled from YAML + env.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Layout   LayoutConfig   `yaml:"layout"`
	Keys     KeysConfig     `yaml:"keys"`
	DPadMode string         `yaml:"dpad_mode"`
	Haptics  HapticsConfig  `yaml:"haptics"`
	Native   native.Symbols `yaml:"native"`
}

// GameConfig locates the game and its data.
type GameConfig struct {
	Home    string   `yaml:"home"`    // Writable game home; data is staged here
	Library string   `yaml:"library"` // Shared library; empty runs without the game
	Bundle  string   `yaml:"bundle"`  // Directory containing the bundled data tree
	Root    string   `yaml:"root"`    // Subtree of Bundle to stage
	Args    []string `yaml:"args"`    // Extra arguments after -home
}

// LayoutConfig holds the control metrics.
type LayoutConfig struct {
	Margin     float64 `yaml:"margin"`
	DPadRadius float64 `yaml:"dpad_radius"`
	ButtonSize float64 `yaml:"button_size"`
}

// KeysConfig holds game key codes.
type KeysConfig struct {
	Accelerate int `yaml:"accelerate"`
	Brake      int `yaml:"brake"`
	Drift      int `yaml:"drift"`
	Item       int `yaml:"item"`
	Left       int `yaml:"left"`
	Right      int `yaml:"right"`
	Up         int `yaml:"up"`
	Down       int `yaml:"down"`
}

// HapticsConfig holds press feedback settings.
type HapticsConfig struct {
	Enabled bool `yaml:"enabled"`
	PulseMS int  `yaml:"pulse_ms"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ringpad")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("RINGPAD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultHome returns the default game home directory.
func DefaultHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ringracers")
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	m := touch.DefaultMetrics()
	k := sink.DefaultKeymap()
	return &Config{
		Game: GameConfig{
			Home: DefaultHome(),
			Root: "gamedata",
		},
		Layout: LayoutConfig{
			Margin:     m.Margin,
			DPadRadius: m.DPadRadius,
			ButtonSize: m.ButtonSize,
		},
		Keys: KeysConfig{
			Accelerate: k.Buttons[touch.Accelerate],
			Brake:      k.Buttons[touch.Brake],
			Drift:      k.Buttons[touch.Drift],
			Item:       k.Buttons[touch.Item],
			Left:       k.Left,
			Right:      k.Right,
			Up:         k.Up,
			Down:       k.Down,
		},
		DPadMode: sink.ModeControl.String(),
		Haptics: HapticsConfig{
			Enabled: true,
			PulseMS: 15,
		},
		Native: native.DefaultSymbols(),
	}
}

// Load assembles configuration from the default YAML file and environment
// variables. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom assembles configuration from the YAML file at path and environment
// variables. Environment variables always take precedence.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	// 1. YAML config file over defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// 2. Environment variables override everything
	if v := os.Getenv("SRB2HOME"); v != "" {
		cfg.Game.Home = v
	}
	if v := os.Getenv("RINGRACERSHOME"); v != "" {
		cfg.Game.Home = v
	}
	if v := os.Getenv("RINGPAD_LIBRARY"); v != "" {
		cfg.Game.Library = v
	}
	if v := os.Getenv("RINGPAD_BUNDLE"); v != "" {
		cfg.Game.Bundle = v
	}
	if v := os.Getenv("RINGPAD_DPAD_MODE"); v != "" {
		cfg.DPadMode = v
	}
	if v := os.Getenv("RINGPAD_HAPTICS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing RINGPAD_HAPTICS: %w", err)
		}
		cfg.Haptics.Enabled = on
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := sink.ParseMode(c.DPadMode); err != nil {
		return fmt.Errorf("dpad_mode: %w", err)
	}
	if c.Layout.DPadRadius <= 0 || c.Layout.ButtonSize <= 0 || c.Layout.Margin < 0 {
		return fmt.Errorf("layout: sizes must be positive")
	}
	if strings.TrimSpace(c.Game.Home) == "" {
		return fmt.Errorf("game.home is empty")
	}
	return nil
}

// Metrics returns the control metrics.
func (c *Config) Metrics() touch.Metrics {
	return touch.Metrics{
		Margin:     c.Layout.Margin,
		DPadRadius: c.Layout.DPadRadius,
		ButtonSize: c.Layout.ButtonSize,
	}
}

// Keymap returns the key codes as a sink keymap.
func (c *Config) Keymap() sink.Keymap {
	return sink.Keymap{
		Buttons: [touch.NumButtons]int{
			touch.Accelerate: c.Keys.Accelerate,
			touch.Brake:      c.Keys.Brake,
			touch.Drift:      c.Keys.Drift,
			touch.Item:       c.Keys.Item,
		},
		Left:  c.Keys.Left,
		Right: c.Keys.Right,
		Up:    c.Keys.Up,
		Down:  c.Keys.Down,
	}
}

// Mode returns the parsed D-pad mode. Validate has already rejected bad
// values, so errors fall back to ModeControl.
func (c *Config) Mode() sink.Mode {
	m, _ := sink.ParseMode(c.DPadMode)
	return m
}

// GameArgs returns the command line passed to the game's main entry point.
func (c *Config) GameArgs() []string {
	return append([]string{"-home", c.Game.Home}, c.Game.Args...)
}

// WriteConfigFile writes config to the YAML file.
func WriteConfigFile(cfg *Config) error {
	dir := filepath.Dir(DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(DefaultConfigPath(), data, 0o644)
}
