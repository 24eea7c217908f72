// Package coordinator wires the touch controls, the input sink and the game
// runtime together and routes lifecycle events between them.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phinze/ringpad/internal/device"
	"github.com/phinze/ringpad/internal/sink"
	"github.com/phinze/ringpad/internal/staging"
	"github.com/phinze/ringpad/internal/touch"
)

// Runtime is the game process the controls drive.
type Runtime interface {
	Start(args []string) error
	Pause() error
	Resume() error
	Stop(ctx context.Context) error
	Done() <-chan struct{}
}

// stopTimeout bounds how long Stop waits for the game to exit.
const stopTimeout = 2 * time.Second

// Options configures a Coordinator.
type Options struct {
	Metrics touch.Metrics
	Sink    *sink.Sink

	// Device receives the sink's output. Required.
	Device device.Device

	// Runtime is started by Run with Args. Nil runs the controls alone.
	Runtime Runtime
	Args    []string

	// Stager prepares the game home before the runtime starts. Optional.
	Stager *staging.Stager

	// Pulser fires on every button press. Optional.
	Pulser touch.Pulser
}

// Coordinator owns the touch controller and its downstream plumbing.
//
// Input methods (Resize, Touches, Handle, CancelGesture, SetVisible, State)
// must be called from the single input goroutine. Lifecycle methods (Run,
// Pause, Resume, Stop) may be called from any goroutine.
type Coordinator struct {
	metrics touch.Metrics
	sink    *sink.Sink
	device  device.Device
	runtime Runtime
	args    []string
	stager  *staging.Stager

	// Input side
	controller *touch.Controller
	tracker    touch.Tracker
	events     []touch.Event
	width      float64
	height     float64

	// Set by lifecycle calls, consumed on the input goroutine.
	cancelRequested atomic.Bool

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex // guards cancel and paused
	paused bool
}

// New creates a Coordinator. The controller starts with an empty layout
// until the first Resize.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		metrics: opts.Metrics,
		sink:    opts.Sink,
		device:  opts.Device,
		runtime: opts.Runtime,
		args:    opts.Args,
		stager:  opts.Stager,
	}
	c.controller = touch.NewController(touch.Layout{}, c.sink, opts.Pulser)
	return c
}

// Run prepares the game home, starts the sink worker and the runtime, and
// blocks until ctx is done or the game exits.
func (c *Coordinator) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.ctx, c.cancel = runCtx, cancel
	c.mu.Unlock()

	if c.stager != nil {
		c.prepareHome()
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.sink.Run(c.ctx)
	}()

	var exited <-chan struct{}
	if c.runtime != nil {
		if err := c.runtime.Start(c.args); err != nil {
			c.cancel()
			c.wg.Wait()
			return fmt.Errorf("starting game: %w", err)
		}
		exited = c.runtime.Done()
	}
	c.sink.Attach(c.device)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		watchSleep(c.ctx, c)
	}()

	select {
	case <-c.ctx.Done():
		return nil
	case <-exited:
		log.Println("Game exited")
		return nil
	}
}

// prepareHome creates the game home and stages bundled data. Failures are
// logged; the game may still start with whatever is already there.
func (c *Coordinator) prepareHome() {
	if err := c.stager.EnsureDirs(); err != nil {
		log.Printf("Preparing game home: %v", err)
	}
	if _, err := c.stager.Stage(c.ctx); err != nil {
		log.Printf("Staging game data: %v (continuing)", err)
	}

	home := c.stager.Dest()
	for _, k := range []string{"SRB2HOME", "RINGRACERSHOME"} {
		if err := os.Setenv(k, home); err != nil {
			log.Printf("Setting %s: %v", k, err)
		}
	}
}

// Stop detaches the device, asks the game to quit and waits for background
// work to finish.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.sink.Detach()

	var err error
	if c.runtime != nil {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		err = c.runtime.Stop(ctx)
	}

	c.wg.Wait()
	return err
}

// Pause releases everything the game holds and pauses it. Held fingers are
// forgotten on the next input frame.
func (c *Coordinator) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return nil
	}
	c.paused = true
	c.cancelRequested.Store(true)
	c.sink.Reset()

	if c.runtime == nil {
		return nil
	}
	log.Println("Pausing game")
	return c.runtime.Pause()
}

// Resume resumes a paused game.
func (c *Coordinator) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return nil
	}
	c.paused = false

	if c.runtime == nil {
		return nil
	}
	log.Println("Resuming game")
	return c.runtime.Resume()
}

// Paused reports whether the coordinator is paused.
func (c *Coordinator) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Resize lays the controls out for a surface of the given size. Sizes that
// did not change are ignored.
func (c *Coordinator) Resize(width, height float64) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.controller.Resize(touch.NewLayout(width, height, c.metrics))
}

// Touches feeds one frame of active touches.
func (c *Coordinator) Touches(ts []touch.Touch) {
	c.applyCancel()
	c.events = c.tracker.Update(c.events[:0], ts)
	for _, e := range c.events {
		c.controller.Handle(e)
	}
}

// Handle feeds a single event from a callback-style input source.
func (c *Coordinator) Handle(e touch.Event) {
	c.applyCancel()
	c.controller.Handle(e)
}

// CancelGesture releases every control, for example when the surface loses
// focus.
func (c *Coordinator) CancelGesture() {
	c.events = c.tracker.Cancel(c.events[:0])
	c.controller.CancelGesture()
}

// SetVisible shows or hides the controls.
func (c *Coordinator) SetVisible(visible bool) {
	if !visible {
		c.events = c.tracker.Cancel(c.events[:0])
	}
	c.controller.SetVisible(visible)
}

// Visible reports whether the controls are shown.
func (c *Coordinator) Visible() bool {
	return c.controller.Visible()
}

// State returns the controller snapshot for drawing.
func (c *Coordinator) State() touch.State {
	return c.controller.State()
}

func (c *Coordinator) applyCancel() {
	if c.cancelRequested.CompareAndSwap(true, false) {
		c.CancelGesture()
	}
}
