//go:build mobile

// Package mobile is the ebitenmobile binding for Android and iOS hosts.
//
// Build with:
//
//	ebitenmobile bind -target android -tags mobile -javapkg org.ringpad -o build/ringpad.aar ./mobile
//
// The host calls Configure before the view is shown and forwards its
// lifecycle through Pause, Resume and Stop.
package mobile

import (
	"context"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/phinze/ringpad/internal/app"
	"github.com/phinze/ringpad/internal/config"
	"github.com/phinze/ringpad/internal/device/emulator"
)

// lazyGame defers loading the game library until the first frame, once the
// host has had a chance to call Configure.
type lazyGame struct {
	once    sync.Once
	emu     *emulator.Emulator
	initErr error

	// Guarded by mu; read from host lifecycle calls.
	app    *app.App
	cancel context.CancelFunc
}

var (
	mu      sync.Mutex
	home    string
	library string
	game    = &lazyGame{}
)

func (g *lazyGame) initialize() {
	g.once.Do(func() {
		log.Println("[Mobile] Starting lazy initialization...")

		cfg, err := config.Load()
		if err != nil {
			log.Printf("[Mobile] Config: %v (using defaults)", err)
			cfg = config.Defaults()
		}
		mu.Lock()
		if home != "" {
			cfg.Game.Home = home
		}
		if library != "" {
			cfg.Game.Library = library
		}
		mu.Unlock()

		a, err := app.New(cfg)
		if err != nil {
			log.Printf("[Mobile] Initialization failed: %v", err)
			g.initErr = err
			return
		}
		g.emu = emulator.New(a.Coordinator, "Ring Racers")

		ctx, cancel := context.WithCancel(context.Background())
		mu.Lock()
		g.app, g.cancel = a, cancel
		mu.Unlock()

		go func() {
			if err := a.Coordinator.Run(ctx); err != nil {
				log.Printf("[Mobile] Game: %v", err)
			}
			g.emu.Close()
		}()
		log.Println("[Mobile] Game started")
	})
}

func (g *lazyGame) Update() error {
	g.initialize()
	if g.initErr != nil {
		return nil
	}
	return g.emu.Update()
}

func (g *lazyGame) Draw(screen *ebiten.Image) {
	g.initialize()
	if g.initErr != nil {
		screen.Fill(color.RGBA{255, 0, 0, 255})
		return
	}
	g.emu.Draw(screen)
}

func (g *lazyGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.emu != nil {
		return g.emu.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func init() {
	mobile.SetGame(game)
}

// Configure sets the writable game home and the game library path. Empty
// values keep the configured defaults. It has no effect after the first
// frame.
func Configure(gameHome, gameLibrary string) {
	mu.Lock()
	defer mu.Unlock()
	home, library = gameHome, gameLibrary
}

// started returns the running session, or nil before the first frame.
func started() (*app.App, context.CancelFunc) {
	mu.Lock()
	defer mu.Unlock()
	return game.app, game.cancel
}

// Pause releases every control and pauses the game.
func Pause() {
	if a, _ := started(); a != nil {
		if err := a.Coordinator.Pause(); err != nil {
			log.Printf("[Mobile] Pause: %v", err)
		}
	}
}

// Resume resumes a paused game.
func Resume() {
	if a, _ := started(); a != nil {
		if err := a.Coordinator.Resume(); err != nil {
			log.Printf("[Mobile] Resume: %v", err)
		}
	}
}

// Stop quits the game.
func Stop() {
	a, cancel := started()
	if a == nil {
		return
	}
	cancel()
	if err := a.Coordinator.Stop(); err != nil {
		log.Printf("[Mobile] Stop: %v", err)
	}
}
