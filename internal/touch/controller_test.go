package touch

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
)

// recorder captures controller output as readable strings.
type recorder struct {
	events []string
	pulses int
}

func (r *recorder) DirectionChanged(dir Direction) {
	r.events = append(r.events, "dir:"+dir.String())
}

func (r *recorder) ButtonChanged(b Button, pressed bool) {
	verb := "release"
	if pressed {
		verb = "press"
	}
	r.events = append(r.events, fmt.Sprintf("%s:%v", verb, b))
}

func (r *recorder) Pulse() { r.pulses++ }

func (r *recorder) take() []string {
	ev := r.events
	r.events = nil
	return ev
}

func newTestController() (*Controller, *recorder) {
	rec := &recorder{}
	return NewController(testLayout(), rec, rec), rec
}

func expectEvents(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.take()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func center(l Layout, b Button) Point {
	return l.Buttons[b].Center()
}

func TestScenarioDPadSweep(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, l.DPadCenter)
	expectEvents(t, rec)

	c.PointerMove(1, polar(l, 0, 60))
	expectEvents(t, rec, "dir:right")

	c.PointerMove(1, polar(l, 45, 60))
	expectEvents(t, rec, "dir:right|down")

	c.PointerUp(1)
	expectEvents(t, rec, "dir:none")

	if s := c.State(); s.DPadHeld || s.Direction != DirNone {
		t.Errorf("after release: held=%v dir=%v, want unheld none", s.DPadHeld, s.Direction)
	}
}

func TestScenarioTwoButtons(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(5, center(l, Accelerate))
	expectEvents(t, rec, "press:accelerate")
	if rec.pulses != 1 {
		t.Errorf("pulses = %d, want 1", rec.pulses)
	}

	c.PointerDown(7, center(l, Brake))
	expectEvents(t, rec, "press:brake")

	c.PointerUp(5)
	expectEvents(t, rec, "release:accelerate")

	s := c.State()
	if s.Pressed[Accelerate] {
		t.Error("accelerate should be released")
	}
	if !s.Pressed[Brake] {
		t.Error("brake should still be pressed")
	}
	if rec.pulses != 2 {
		t.Errorf("pulses = %d, want 2 (one per press, none on release)", rec.pulses)
	}
}

func TestScenarioButtonIgnoresMove(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(3, center(l, Drift))
	expectEvents(t, rec, "press:drift")

	c.PointerMove(3, center(l, Item))
	c.PointerMove(3, polar(l, 0, 60))
	expectEvents(t, rec)

	s := c.State()
	if !s.Pressed[Drift] || s.Pressed[Item] || s.DPadHeld {
		t.Errorf("state changed on move: %+v", s)
	}
}

func TestScenarioResizeKeepsOwnership(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, polar(l, 0, 60))
	expectEvents(t, rec, "dir:right")

	c.Resize(NewLayout(1920, 1080, DefaultMetrics()))
	expectEvents(t, rec)
	if !c.State().DPadHeld {
		t.Fatal("resize cleared D-pad ownership")
	}

	// Straight above the new center; relative to the old center this would
	// have been below.
	nl := c.Layout()
	c.PointerMove(1, polar(nl, -90, 60))
	expectEvents(t, rec, "dir:up")
}

func TestResizeKeepsButtonPressed(t *testing.T) {
	c, rec := newTestController()
	c.PointerDown(2, center(c.Layout(), Item))
	expectEvents(t, rec, "press:item")

	c.Resize(NewLayout(640, 480, DefaultMetrics()))
	if !c.State().Pressed[Item] {
		t.Error("resize released a held button")
	}
	c.PointerUp(2)
	expectEvents(t, rec, "release:item")
}

func TestDownInDeadZoneEmitsNothing(t *testing.T) {
	c, rec := newTestController()
	c.PointerDown(1, polar(c.Layout(), 30, 10))
	expectEvents(t, rec)
	if !c.State().DPadHeld {
		t.Error("D-pad should be owned after a down in the dead zone")
	}
}

func TestDownInSlackRing(t *testing.T) {
	c, rec := newTestController()
	c.PointerDown(1, polar(c.Layout(), 180, 115))
	expectEvents(t, rec, "dir:left")
}

func TestContestedButton(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, center(l, Accelerate))
	expectEvents(t, rec, "press:accelerate")

	c.PointerDown(2, center(l, Accelerate))
	expectEvents(t, rec)
	if rec.pulses != 1 {
		t.Errorf("pulses = %d, want 1", rec.pulses)
	}

	// The loser was never tracked.
	c.PointerUp(2)
	expectEvents(t, rec)

	c.PointerUp(1)
	expectEvents(t, rec, "release:accelerate")
}

func TestContestedDPad(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, polar(l, 0, 60))
	expectEvents(t, rec, "dir:right")

	c.PointerDown(2, polar(l, 180, 60))
	c.PointerMove(2, polar(l, 90, 60))
	c.PointerUp(2)
	expectEvents(t, rec)

	c.PointerMove(1, polar(l, 90, 60))
	expectEvents(t, rec, "dir:down")
}

func TestOwnerCannotClaimSecondControl(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(4, center(l, Brake))
	expectEvents(t, rec, "press:brake")

	// Duplicate down for an active pointer.
	c.PointerDown(4, center(l, Drift))
	c.PointerDown(4, polar(l, 0, 60))
	expectEvents(t, rec)

	s := c.State()
	if s.Pressed[Drift] || s.DPadHeld {
		t.Errorf("pointer claimed a second control: %+v", s)
	}
}

func TestUnknownPointerIsNoOp(t *testing.T) {
	c, rec := newTestController()
	c.PointerMove(42, polar(c.Layout(), 0, 60))
	c.PointerUp(42)
	expectEvents(t, rec)
}

func TestDownOnNothingIsNotTracked(t *testing.T) {
	c, rec := newTestController()
	c.PointerDown(9, Point{640, 100})
	expectEvents(t, rec)

	// Moving onto the D-pad afterwards does not engage it.
	c.PointerMove(9, polar(c.Layout(), 0, 60))
	expectEvents(t, rec)
	if c.State().DPadHeld {
		t.Error("untracked pointer engaged the D-pad")
	}
}

func TestReleaseAlwaysReportsCentered(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, polar(l, 0, 60))
	c.PointerMove(1, l.DPadCenter)
	expectEvents(t, rec, "dir:right", "dir:none")

	c.PointerUp(1)
	expectEvents(t, rec, "dir:none")
}

func TestCancelGesture(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, polar(l, -90, 60))
	c.PointerDown(2, center(l, Drift))
	c.PointerDown(3, center(l, Item))
	expectEvents(t, rec, "dir:up", "press:drift", "press:item")

	c.CancelGesture()
	expectEvents(t, rec, "dir:none", "release:drift", "release:item")

	s := c.State()
	if s.DPadHeld || s.Direction != DirNone || s.Pressed != [NumButtons]bool{} {
		t.Errorf("state after cancel = %+v, want empty", s)
	}

	c.CancelGesture()
	expectEvents(t, rec)

	// Fingers from the cancelled gesture no longer drive anything.
	c.PointerMove(1, polar(l, 0, 60))
	c.PointerUp(2)
	expectEvents(t, rec)
}

// A held D-pad reports centered on cancel even if its owner never left the
// dead zone, matching release.
func TestCancelDPadHeldInDeadZone(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, l.DPadCenter)
	expectEvents(t, rec)

	c.CancelGesture()
	expectEvents(t, rec, "dir:none")

	c.CancelGesture()
	expectEvents(t, rec)
}

func TestCancelWithNothingHeld(t *testing.T) {
	c, rec := newTestController()
	c.CancelGesture()
	expectEvents(t, rec)
}

func TestHandleDispatch(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	for _, e := range []Event{
		Down(1, polar(l, 0, 60)),
		Move(1, polar(l, 90, 60)),
		Down(2, center(l, Accelerate)),
		Up(1),
		Cancel(),
	} {
		c.Handle(e)
	}
	expectEvents(t, rec, "dir:right", "dir:down", "press:accelerate", "dir:none", "release:accelerate")
}

func TestHiddenControls(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()

	c.PointerDown(1, polar(l, 0, 60))
	c.PointerDown(2, center(l, Brake))
	expectEvents(t, rec, "dir:right", "press:brake")

	c.SetVisible(false)
	expectEvents(t, rec, "dir:none", "release:brake")

	c.PointerDown(3, center(l, Drift))
	c.PointerUp(2)
	expectEvents(t, rec)
	if c.State().Visible {
		t.Error("State().Visible = true after hiding")
	}

	c.SetVisible(true)
	c.PointerDown(3, center(l, Drift))
	expectEvents(t, rec, "press:drift")
}

func TestNilListener(t *testing.T) {
	c := NewController(testLayout(), nil, nil)
	c.PointerDown(1, center(c.Layout(), Accelerate))
	c.PointerDown(2, polar(c.Layout(), 0, 60))
	c.CancelGesture()
	if c.State().Pressed[Accelerate] {
		t.Error("accelerate still pressed after cancel")
	}
}

func TestDirectionIsEdgeTriggered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c, rec := newTestController()
	l := c.Layout()

	for round := 0; round < 50; round++ {
		c.PointerDown(1, polar(l, rng.Float64()*360-180, rng.Float64()*l.DPadRadius))
		for i := 0; i < 40; i++ {
			c.PointerMove(1, polar(l, rng.Float64()*360-180, rng.Float64()*l.DPadRadius))
		}
		got := rec.take()
		for i := 1; i < len(got); i++ {
			if got[i] == got[i-1] {
				t.Fatalf("round %d: consecutive duplicate %q in %v", round, got[i], got)
			}
		}
		c.PointerUp(1)
		expectEvents(t, rec, "dir:none")
	}
}
