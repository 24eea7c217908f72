// Package app assembles the touch controls, the input sink and the game from
// a loaded configuration.
package app

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/phinze/ringpad/internal/config"
	"github.com/phinze/ringpad/internal/coordinator"
	"github.com/phinze/ringpad/internal/device"
	"github.com/phinze/ringpad/internal/haptics"
	"github.com/phinze/ringpad/internal/native"
	"github.com/phinze/ringpad/internal/sink"
	"github.com/phinze/ringpad/internal/staging"
	"github.com/phinze/ringpad/internal/touch"
)

// App is one assembled controller session.
type App struct {
	Coordinator *coordinator.Coordinator
	Stager      *staging.Stager
	Sink        *sink.Sink

	library *native.Library
}

// New wires a session from cfg. Without a game library the controls drive a
// logging device so the layout can be tried on its own.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		Stager: NewStager(cfg),
		Sink:   sink.New(cfg.Mode(), cfg.Keymap()),
	}

	var dev device.Device = device.NewLogger("input: ")
	var rt coordinator.Runtime
	if cfg.Game.Library != "" {
		lib, err := native.Open(cfg.Game.Library, cfg.Native)
		if err != nil {
			return nil, fmt.Errorf("opening game library: %w", err)
		}
		if missing := lib.Missing(); len(missing) > 0 {
			log.Printf("Game library does not export: %s", strings.Join(missing, ", "))
		}
		a.library = lib
		dev, rt = lib, lib
	} else {
		log.Println("No game library configured; logging input only")
	}

	a.Coordinator = coordinator.New(coordinator.Options{
		Metrics: cfg.Metrics(),
		Sink:    a.Sink,
		Device:  dev,
		Runtime: rt,
		Args:    cfg.GameArgs(),
		Stager:  a.Stager,
		Pulser:  newPulser(cfg),
	})
	return a, nil
}

// NewStager returns the stager for the configured bundle and home.
func NewStager(cfg *config.Config) *staging.Stager {
	var bundle fs.FS
	if cfg.Game.Bundle != "" {
		bundle = os.DirFS(cfg.Game.Bundle)
	}
	return staging.New(bundle, cfg.Game.Root, cfg.Game.Home)
}

func newPulser(cfg *config.Config) touch.Pulser {
	if !cfg.Haptics.Enabled {
		return haptics.Nop{}
	}
	click, err := haptics.NewClick(time.Duration(cfg.Haptics.PulseMS) * time.Millisecond)
	if err != nil {
		log.Printf("Haptics disabled: %v", err)
		return haptics.Nop{}
	}
	return click
}

// Library returns the loaded game library, or nil.
func (a *App) Library() *native.Library {
	return a.library
}

// Close unloads the game library. The coordinator must be stopped first.
func (a *App) Close() error {
	if a.library == nil {
		return nil
	}
	return a.library.Close()
}
