package touch

// Listener receives control changes from a Controller.
type Listener interface {
	// DirectionChanged is called when the D-pad direction changes, and
	// always when the D-pad owner lifts its finger.
	DirectionChanged(dir Direction)

	// ButtonChanged is called when a button is pressed or released.
	ButtonChanged(b Button, pressed bool)
}

// Pulser fires a short haptic pulse. Implementations must not block.
type Pulser interface {
	Pulse()
}

// ownership binds a control to the pointer driving it.
type ownership struct {
	pointer PointerID
	held    bool
}

func (o ownership) is(id PointerID) bool {
	return o.held && o.pointer == id
}

type dpadState struct {
	owner ownership
	dir   Direction
}

type buttonState struct {
	owner   ownership
	pressed bool
}

// Controller tracks which pointer drives which control and reports changes
// to its Listener.
//
// A Controller is not safe for concurrent use. All methods are expected to
// run on the input thread, one sample at a time. No input is ever an error:
// samples for unknown pointers and malformed sequences are ignored.
type Controller struct {
	layout  Layout
	visible bool

	dpad    dpadState
	buttons [NumButtons]buttonState

	listener Listener
	pulser   Pulser
}

// NewController creates a visible controller for the given layout.
// listener and pulser may be nil.
func NewController(layout Layout, listener Listener, pulser Pulser) *Controller {
	return &Controller{
		layout:   layout,
		visible:  true,
		listener: listener,
		pulser:   pulser,
	}
}

// Handle dispatches a raw touch sample.
func (c *Controller) Handle(e Event) {
	switch e.Type {
	case EventDown:
		c.PointerDown(e.Pointer, e.Point)
	case EventMove:
		c.PointerMove(e.Pointer, e.Point)
	case EventUp:
		c.PointerUp(e.Pointer)
	case EventCancel:
		c.CancelGesture()
	}
}

// PointerDown claims the control under p for pointer id.
//
// The D-pad is tested before the buttons. A control that already has an
// owner is never stolen, and a pointer that already owns a control does not
// claim another one. Fingers that land on nothing claimable are not tracked.
func (c *Controller) PointerDown(id PointerID, p Point) {
	if !c.visible || c.owns(id) {
		return
	}

	if !c.dpad.owner.held && c.layout.InsideDPad(p) {
		c.dpad.owner = ownership{pointer: id, held: true}
		c.steer(p)
		return
	}

	for _, b := range Buttons {
		st := &c.buttons[b]
		if st.owner.held || !c.layout.InsideButton(p, b) {
			continue
		}
		st.owner = ownership{pointer: id, held: true}
		st.pressed = true
		c.emitButton(b, true)
		if c.pulser != nil {
			c.pulser.Pulse()
		}
		return
	}
}

// PointerMove updates the D-pad direction when id owns the D-pad.
// Buttons do not react to movement.
func (c *Controller) PointerMove(id PointerID, p Point) {
	if !c.visible || !c.dpad.owner.is(id) {
		return
	}
	c.steer(p)
}

// PointerUp releases every control owned by id.
//
// Releasing the D-pad always reports DirNone, even when the direction was
// already empty, so the consumer cannot be left steering.
func (c *Controller) PointerUp(id PointerID) {
	if !c.visible {
		return
	}
	if c.dpad.owner.is(id) {
		c.dpad = dpadState{}
		c.emitDirection(DirNone)
	}
	for _, b := range Buttons {
		if c.buttons[b].owner.is(id) {
			c.release(b)
		}
	}
}

// CancelGesture releases every control regardless of owner, leaving the
// controller as if all fingers had been lifted. Like PointerUp, a held
// D-pad reports DirNone even when its direction was already empty. Calling
// it again with nothing held reports nothing.
func (c *Controller) CancelGesture() {
	if c.dpad.owner.held {
		c.dpad = dpadState{}
		c.emitDirection(DirNone)
	}
	for _, b := range Buttons {
		if c.buttons[b].pressed {
			c.release(b)
		}
	}
}

// Resize replaces the hit regions. Ownership and pressed state are kept;
// the next move of the D-pad owner is measured against the new center.
func (c *Controller) Resize(layout Layout) {
	c.layout = layout
}

// SetVisible shows or hides the controls. Hidden controls ignore touches.
// Hiding releases everything that is held first.
func (c *Controller) SetVisible(visible bool) {
	if !visible && c.visible {
		c.CancelGesture()
	}
	c.visible = visible
}

// Visible reports whether the controls are shown.
func (c *Controller) Visible() bool {
	return c.visible
}

// Layout returns the current hit regions.
func (c *Controller) Layout() Layout {
	return c.layout
}

// State is a read-only snapshot of the controller.
type State struct {
	Layout    Layout
	Visible   bool
	Direction Direction
	DPadHeld  bool
	Pressed   [NumButtons]bool
}

// State returns a snapshot for presentation.
func (c *Controller) State() State {
	s := State{
		Layout:    c.layout,
		Visible:   c.visible,
		Direction: c.dpad.dir,
		DPadHeld:  c.dpad.owner.held,
	}
	for _, b := range Buttons {
		s.Pressed[b] = c.buttons[b].pressed
	}
	return s
}

// owns reports whether id owns any control.
func (c *Controller) owns(id PointerID) bool {
	if c.dpad.owner.is(id) {
		return true
	}
	for _, b := range Buttons {
		if c.buttons[b].owner.is(id) {
			return true
		}
	}
	return false
}

// steer recomputes the D-pad direction for p and reports it on change.
func (c *Controller) steer(p Point) {
	dir := c.layout.Octant(p)
	if dir == c.dpad.dir {
		return
	}
	c.dpad.dir = dir
	c.emitDirection(dir)
}

func (c *Controller) release(b Button) {
	c.buttons[b] = buttonState{}
	c.emitButton(b, false)
}

func (c *Controller) emitDirection(dir Direction) {
	if c.listener != nil {
		c.listener.DirectionChanged(dir)
	}
}

func (c *Controller) emitButton(b Button, pressed bool) {
	if c.listener != nil {
		c.listener.ButtonChanged(b, pressed)
	}
}
