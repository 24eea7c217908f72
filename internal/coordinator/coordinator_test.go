package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/phinze/ringpad/internal/device"
	"github.com/phinze/ringpad/internal/sink"
	"github.com/phinze/ringpad/internal/staging"
	"github.com/phinze/ringpad/internal/touch"
)

type fakeRuntime struct {
	mu       sync.Mutex
	calls    []string
	args     []string
	startErr error
	done     chan struct{}
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{done: make(chan struct{})}
}

func (r *fakeRuntime) record(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *fakeRuntime) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *fakeRuntime) Start(args []string) error {
	r.record("start")
	r.mu.Lock()
	r.args = args
	r.mu.Unlock()
	return r.startErr
}

func (r *fakeRuntime) Pause() error  { r.record("pause"); return nil }
func (r *fakeRuntime) Resume() error { r.record("resume"); return nil }

func (r *fakeRuntime) Stop(ctx context.Context) error {
	r.record("stop")
	return nil
}

func (r *fakeRuntime) Done() <-chan struct{} { return r.done }

type fakeDevice struct {
	mu    sync.Mutex
	calls []string
}

func (d *fakeDevice) SendControl(c device.Control, pressed bool) error {
	d.record(fmt.Sprintf("control %v %v", c, pressed))
	return nil
}

func (d *fakeDevice) SendDPad(x, y float32) error {
	d.record(fmt.Sprintf("dpad %v %v", x, y))
	return nil
}

func (d *fakeDevice) SendKey(code int, pressed bool) error {
	d.record(fmt.Sprintf("key %d %v", code, pressed))
	return nil
}

func (d *fakeDevice) SendAxis(axis device.Axis, value float32) error {
	d.record(fmt.Sprintf("axis %v %v", axis, value))
	return nil
}

func (d *fakeDevice) Reset() error {
	d.record("reset")
	return nil
}

func (d *fakeDevice) record(s string) {
	d.mu.Lock()
	d.calls = append(d.calls, s)
	d.mu.Unlock()
}

// waitFor polls until the device has seen n calls.
func (d *fakeDevice) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		if len(d.calls) >= n {
			c := slices.Clone(d.calls)
			d.calls = nil
			d.mu.Unlock()
			return c
		}
		d.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("device saw fewer than %d calls", n)
	return nil
}

type harness struct {
	coord *Coordinator
	rt    *fakeRuntime
	dev   *fakeDevice
	errCh chan error
}

func startHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{rt: newFakeRuntime(), dev: &fakeDevice{}, errCh: make(chan error, 1)}
	opts.Metrics = touch.DefaultMetrics()
	opts.Sink = sink.New(sink.ModeAxis, sink.DefaultKeymap())
	opts.Device = h.dev
	opts.Runtime = h.rt
	h.coord = New(opts)

	go func() { h.errCh <- h.coord.Run(context.Background()) }()

	// Run attaches the device once the runtime has started.
	deadline := time.Now().Add(5 * time.Second)
	for !opts.Sink.Attached() {
		if time.Now().After(deadline) {
			t.Fatal("sink never attached")
		}
		time.Sleep(time.Millisecond)
	}
	t.Cleanup(func() {
		h.coord.Stop()
	})
	return h
}

func TestTouchesReachDevice(t *testing.T) {
	h := startHarness(t, Options{Args: []string{"-home", "/tmp/rr"}})
	c := h.coord
	c.Resize(1280, 720)

	accel := c.State().Layout.Buttons[touch.Accelerate].Center()
	c.Touches([]touch.Touch{{ID: 1, Point: accel}})
	c.Touches([]touch.Touch{{ID: 1, Point: accel}, {ID: 2, Point: touch.Point{X: 210, Y: 570}}})
	c.Touches(nil)

	got := h.dev.waitFor(t, 6)
	want := []string{
		"key 57 true",
		"axis x 1", "axis y 0",
		"key 57 false",
		"axis x 0", "axis y 0",
	}
	if !slices.Equal(got, want) {
		t.Errorf("device calls = %q, want %q", got, want)
	}

	h.rt.mu.Lock()
	args := h.rt.args
	h.rt.mu.Unlock()
	if !slices.Equal(args, []string{"-home", "/tmp/rr"}) {
		t.Errorf("runtime args = %q", args)
	}
}

func TestPauseReleasesControls(t *testing.T) {
	h := startHarness(t, Options{})
	c := h.coord
	c.Resize(1280, 720)

	brake := c.State().Layout.Buttons[touch.Brake].Center()
	c.Touches([]touch.Touch{{ID: 4, Point: brake}})
	h.dev.waitFor(t, 1)

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause() = %v", err)
	}
	if err := c.Pause(); err != nil {
		t.Fatalf("second Pause() = %v", err)
	}
	got := h.dev.waitFor(t, 4)
	if want := []string{"key 29 false", "axis x 0", "axis y 0", "reset"}; !slices.Equal(got, want) {
		t.Errorf("device calls on pause = %q, want %q", got, want)
	}

	// The next frame drops the stale gesture without reporting again.
	c.Touches(nil)
	if c.State().Pressed[touch.Brake] {
		t.Error("brake still pressed after pause")
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("Resume() = %v", err)
	}
	if want := []string{"start", "pause", "resume"}; !slices.Equal(h.rt.recorded(), want) {
		t.Errorf("runtime calls = %v, want %v", h.rt.recorded(), want)
	}
}

func TestHideCancelsTracking(t *testing.T) {
	h := startHarness(t, Options{})
	c := h.coord
	c.Resize(1280, 720)

	drift := c.State().Layout.Buttons[touch.Drift].Center()
	c.Touches([]touch.Touch{{ID: 1, Point: drift}})
	c.SetVisible(false)
	got := h.dev.waitFor(t, 2)
	if want := []string{"key 42 true", "key 42 false"}; !slices.Equal(got, want) {
		t.Errorf("device calls = %q, want %q", got, want)
	}

	c.SetVisible(true)
	c.Touches([]touch.Touch{{ID: 1, Point: drift}})
	if got := h.dev.waitFor(t, 1); got[0] != "key 42 true" {
		t.Errorf("re-press after showing = %q", got)
	}
}

func TestRunReturnsWhenGameExits(t *testing.T) {
	h := startHarness(t, Options{})
	close(h.rt.done)
	select {
	case err := <-h.errCh:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the game exited")
	}
}

func TestRunStartError(t *testing.T) {
	rt := newFakeRuntime()
	rt.startErr = errors.New("no game")
	c := New(Options{
		Metrics: touch.DefaultMetrics(),
		Sink:    sink.New(sink.ModeAxis, sink.DefaultKeymap()),
		Device:  &fakeDevice{},
		Runtime: rt,
	})
	if err := c.Run(context.Background()); !errors.Is(err, rt.startErr) {
		t.Errorf("Run() = %v, want wrapped start error", err)
	}
}

func TestRunStagesHome(t *testing.T) {
	t.Setenv("SRB2HOME", "")
	t.Setenv("RINGRACERSHOME", "")

	home := filepath.Join(t.TempDir(), "rr")
	bundle := fstest.MapFS{"gamedata/main.pk3": {Data: []byte("pk3")}}
	stager := staging.New(bundle, staging.DefaultRoot, home)

	c := New(Options{
		Metrics: touch.DefaultMetrics(),
		Sink:    sink.New(sink.ModeAxis, sink.DefaultKeymap()),
		Device:  device.NewLogger("test: "),
		Stager:  stager,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !stager.Staged() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() = %v", err)
	}
	c.Stop()

	if !stager.HasGameFile("main.pk3") {
		t.Error("main.pk3 not staged")
	}
	if _, err := os.Stat(filepath.Join(home, "addons")); err != nil {
		t.Errorf("addons not created: %v", err)
	}
	if os.Getenv("RINGRACERSHOME") != home || os.Getenv("SRB2HOME") != home {
		t.Errorf("home env = %q / %q, want %q", os.Getenv("RINGRACERSHOME"), os.Getenv("SRB2HOME"), home)
	}
}

func TestResizeIgnoresSameSize(t *testing.T) {
	c := New(Options{
		Metrics: touch.DefaultMetrics(),
		Sink:    sink.New(sink.ModeAxis, sink.DefaultKeymap()),
		Device:  &fakeDevice{},
	})
	c.Resize(1280, 720)
	want := c.State().Layout
	c.Resize(1280, 720)
	if c.State().Layout != want {
		t.Error("layout changed on same-size resize")
	}
	c.Resize(1920, 1080)
	if c.State().Layout == want {
		t.Error("layout unchanged after resize")
	}
}
