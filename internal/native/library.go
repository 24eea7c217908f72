// Package native loads the game's shared library and drives its lifecycle.
package native

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/phinze/ringpad/internal/device"
)

var (
	// ErrAlreadyRunning is returned by Start when the game is running.
	ErrAlreadyRunning = errors.New("game already running")
	// ErrNotRunning is returned by lifecycle calls that need a running game.
	ErrNotRunning = errors.New("game not running")
	// ErrNotPaused is returned by Resume when the game is not paused.
	ErrNotPaused = errors.New("game not paused")
	// ErrMissingSymbol is returned when a required symbol is not exported.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrUnsupported is returned by Open on platforms without dlopen.
	ErrUnsupported = errors.New("native libraries not supported on this platform")
)

// Symbols names the entry points looked up in the game library. Empty names
// are not looked up.
//
// SendControl and ProcessDPad are the game's touch layer. SendKey and
// SendAxis serve ports that take scancodes and raw axes instead.
type Symbols struct {
	Main        string `yaml:"main"`
	SendControl string `yaml:"send_control"`
	ProcessDPad string `yaml:"process_dpad"`
	SendKey     string `yaml:"send_key"`
	SendAxis    string `yaml:"send_axis"`
	Reset       string `yaml:"reset"`
	Quit        string `yaml:"quit"`
	Pause       string `yaml:"pause"`
	Resume      string `yaml:"resume"`
}

// DefaultSymbols returns the names exported by the game port.
func DefaultSymbols() Symbols {
	return Symbols{
		Main:        "D_SRB2Main",
		SendControl: "TouchInput_SendControl",
		ProcessDPad: "TouchInput_ProcessDPad",
		Reset:       "TouchInput_Reset",
		Quit:        "I_Quit",
	}
}

// State is the lifecycle state of the game.
type State int

// Lifecycle states
const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Library is a loaded game library. It implements device.Device so the input
// sink can feed it directly; input calls are no-ops for symbols the library
// does not export and while the game is not running.
type Library struct {
	path string
	syms Symbols

	// Bound entry points. Nil when the symbol is absent.
	main        func(argc int32, argv **byte) int32
	sendControl func(control int32, pressed int32)
	processDPad func(x, y float32)
	sendKey     func(code int32, pressed int32)
	sendAxis    func(axis int32, value float32)
	reset       func()
	quit        func()
	pause       func()
	resume      func()

	closeFn func() error

	mu    sync.Mutex
	state State
	done  chan struct{}
	code  int32
}

var _ device.Device = (*Library)(nil)

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// State returns the lifecycle state.
func (l *Library) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start runs the game's main entry point on a dedicated OS thread with args
// as its command line. It returns once the game is launched.
func (l *Library) Start(args []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Stopped {
		return ErrAlreadyRunning
	}
	if l.main == nil {
		return fmt.Errorf("%w: main entry point", ErrMissingSymbol)
	}

	argv := newArgv(append([]string{"ringracers"}, args...))
	done := make(chan struct{})
	l.done = done
	l.state = Running

	log.Printf("Starting game from %s", l.path)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer argv.free()

		code := l.main(int32(argv.len()), argv.ptr())

		l.mu.Lock()
		l.code = code
		l.state = Stopped
		l.mu.Unlock()
		log.Printf("Game exited with code %d", code)
		close(done)
	}()
	return nil
}

// Pause tells the game it lost the foreground.
func (l *Library) Pause() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Running {
		return ErrNotRunning
	}
	if l.pause != nil {
		l.pause()
	}
	l.state = Paused
	return nil
}

// Resume tells the game it is in the foreground again.
func (l *Library) Resume() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Paused {
		return ErrNotPaused
	}
	if l.resume != nil {
		l.resume()
	}
	l.state = Running
	return nil
}

// Stop asks the game to quit and waits for its main loop to return or for
// ctx to be done.
func (l *Library) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.state == Stopped {
		l.mu.Unlock()
		return ErrNotRunning
	}
	if l.quit == nil {
		l.mu.Unlock()
		return fmt.Errorf("%w: quit", ErrMissingSymbol)
	}
	done := l.done
	quit := l.quit
	l.mu.Unlock()

	quit()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for game to exit: %w", ctx.Err())
	}
}

// Done returns a channel that is closed when the game's main loop returns.
// It is nil before the first Start.
func (l *Library) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Wait blocks until the game's main loop returns and reports its exit code.
func (l *Library) Wait(ctx context.Context) (int, error) {
	done := l.Done()
	if done == nil {
		return 0, ErrNotRunning
	}
	select {
	case <-done:
		return l.ExitCode(), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ExitCode returns the value the last main loop returned.
func (l *Library) ExitCode() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int(l.code)
}

// SendControl forwards a control transition to the game.
func (l *Library) SendControl(c device.Control, pressed bool) error {
	if l.sendControl == nil || !l.live() {
		return nil
	}
	l.sendControl(int32(c), boolInt(pressed))
	return nil
}

// SendDPad forwards both D-pad axes to the game, which applies its own
// threshold.
func (l *Library) SendDPad(x, y float32) error {
	if l.processDPad == nil || !l.live() {
		return nil
	}
	l.processDPad(x, y)
	return nil
}

// SendKey forwards a key transition to the game.
func (l *Library) SendKey(code int, pressed bool) error {
	if l.sendKey == nil || !l.live() {
		return nil
	}
	l.sendKey(int32(code), boolInt(pressed))
	return nil
}

// SendAxis forwards a D-pad axis to the game.
func (l *Library) SendAxis(axis device.Axis, value float32) error {
	if l.sendAxis == nil || !l.live() {
		return nil
	}
	l.sendAxis(int32(axis), value)
	return nil
}

// Reset releases every control on the game side.
func (l *Library) Reset() error {
	if l.reset == nil || !l.live() {
		return nil
	}
	l.reset()
	return nil
}

// Missing lists the configured entry points the library does not export,
// by their config keys. Entry points with no configured name are not
// reported.
func (l *Library) Missing() []string {
	var out []string
	for _, sym := range []struct {
		key   string
		name  string
		bound bool
	}{
		{"send_control", l.syms.SendControl, l.sendControl != nil},
		{"process_dpad", l.syms.ProcessDPad, l.processDPad != nil},
		{"send_key", l.syms.SendKey, l.sendKey != nil},
		{"send_axis", l.syms.SendAxis, l.sendAxis != nil},
		{"reset", l.syms.Reset, l.reset != nil},
		{"quit", l.syms.Quit, l.quit != nil},
		{"pause", l.syms.Pause, l.pause != nil},
		{"resume", l.syms.Resume, l.resume != nil},
	} {
		if sym.name != "" && !sym.bound {
			out = append(out, sym.key)
		}
	}
	return out
}

// Close unloads the library. The game must not be running.
func (l *Library) Close() error {
	if l.live() {
		return ErrAlreadyRunning
	}
	if l.closeFn == nil {
		return nil
	}
	return l.closeFn()
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (l *Library) live() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != Stopped
}

// argv is a NUL-terminated C argument vector backed by pinned Go memory.
type argv struct {
	strs   [][]byte
	ptrs   []*byte
	pinner runtime.Pinner
}

func newArgv(args []string) *argv {
	a := &argv{}
	for _, s := range args {
		b := append([]byte(s), 0)
		a.strs = append(a.strs, b)
		a.pinner.Pin(&b[0])
		a.ptrs = append(a.ptrs, &b[0])
	}
	a.ptrs = append(a.ptrs, nil)
	a.pinner.Pin(&a.ptrs[0])
	return a
}

func (a *argv) len() int {
	return len(a.strs)
}

func (a *argv) ptr() **byte {
	return &a.ptrs[0]
}

func (a *argv) free() {
	a.pinner.Unpin()
}
