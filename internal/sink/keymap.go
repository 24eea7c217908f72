package sink

import (
	"fmt"
	"strings"

	"github.com/phinze/ringpad/internal/device"
	"github.com/phinze/ringpad/internal/touch"
)

// Mode selects how the controls reach the device.
type Mode int

const (
	// ModeControl reports buttons as game controls and the D-pad as one
	// (x, y) pair. This is what the game's touch layer exports.
	ModeControl Mode = iota
	// ModeAxis reports buttons as key codes and the D-pad as two analog
	// axes.
	ModeAxis
	// ModeKeys reports buttons as key codes and the D-pad as arrow keys.
	ModeKeys
)

func (m Mode) String() string {
	switch m {
	case ModeControl:
		return "control"
	case ModeAxis:
		return "axis"
	case ModeKeys:
		return "keys"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "control", "axis" or "keys". The empty string means
// ModeControl.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "control":
		return ModeControl, nil
	case "axis":
		return ModeAxis, nil
	case "keys":
		return ModeKeys, nil
	}
	return ModeControl, fmt.Errorf("unknown dpad mode %q (want control, axis or keys)", s)
}

// buttonControls maps each on-screen button to its game control.
var buttonControls = [touch.NumButtons]device.Control{
	touch.Accelerate: device.ControlAccelerate,
	touch.Brake:      device.ControlBrake,
	touch.Drift:      device.ControlDrift,
	touch.Item:       device.ControlItem,
}

// AxisThreshold is how far an axis must lean before keys mode presses the
// matching arrow.
const AxisThreshold = 0.3

// Keymap assigns game key codes to controls.
type Keymap struct {
	Buttons [touch.NumButtons]int

	// Arrow keys, used in ModeKeys. Buttons are unused in ModeControl.
	Left, Right, Up, Down int
}

// DefaultKeymap returns the game's default bindings: Space, Left Ctrl,
// Left Shift and Enter for the buttons, and the arrow keys.
func DefaultKeymap() Keymap {
	return Keymap{
		Buttons: [touch.NumButtons]int{
			touch.Accelerate: 57,
			touch.Brake:      29,
			touch.Drift:      42,
			touch.Item:       28,
		},
		Left:  105,
		Right: 106,
		Up:    103,
		Down:  108,
	}
}

// arrows returns the arrow key codes with the state each should have for the
// given axis values.
func (k Keymap) arrows(x, y float32) [4]keyState {
	return [4]keyState{
		{k.Left, x < -AxisThreshold},
		{k.Right, x > AxisThreshold},
		{k.Up, y < -AxisThreshold},
		{k.Down, y > AxisThreshold},
	}
}

type keyState struct {
	code    int
	pressed bool
}
