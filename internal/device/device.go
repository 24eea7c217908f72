// Package device defines the abstraction layer for the virtual gamepad that
// receives translated touch controls.
package device

import (
	"fmt"
	"log"
)

// Device is the interface that abstracts the game's input entry points.
// Both the native runtime bridge and the logging device implement it.
type Device interface {
	// SendControl reports a game control transition.
	SendControl(c Control, pressed bool) error

	// SendDPad reports both D-pad axes at once, each in the range [-1, 1].
	// The game applies its own threshold.
	SendDPad(x, y float32) error

	// SendKey reports a key transition using the game's key codes.
	SendKey(code int, pressed bool) error

	// SendAxis reports a D-pad axis in the range [-1, 1].
	SendAxis(axis Axis, value float32) error

	// Reset releases every key and centers the axes.
	Reset() error
}

// Control is a game control as the native touch layer numbers them.
type Control int32

// Game controls
const (
	ControlAccelerate Control = iota
	ControlBrake
	ControlDrift
	ControlItem
	ControlLookBack
	ControlPause
	ControlTurnLeft
	ControlTurnRight
	ControlAimUp
	ControlAimDown

	NumControls = 10
)

var controlNames = [NumControls]string{
	"accelerate", "brake", "drift", "item", "lookback",
	"pause", "turnleft", "turnright", "aimup", "aimdown",
}

func (c Control) String() string {
	if c >= 0 && c < NumControls {
		return controlNames[c]
	}
	return fmt.Sprintf("Control(%d)", int32(c))
}

// Axis identifies one D-pad axis.
type Axis byte

// Axes
const (
	AxisX Axis = iota // Right is positive
	AxisY             // Down is positive
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return fmt.Sprintf("Axis(%d)", a)
}

// Logger is a Device that only logs what it receives. It stands in for the
// game when no native library is loaded.
type Logger struct {
	Prefix string
}

// NewLogger creates a logging device.
func NewLogger(prefix string) *Logger {
	return &Logger{Prefix: prefix}
}

// SendControl logs a control transition.
func (l *Logger) SendControl(c Control, pressed bool) error {
	state := "up"
	if pressed {
		state = "down"
	}
	log.Printf("%scontrol %v %s", l.Prefix, c, state)
	return nil
}

// SendDPad logs both D-pad axes.
func (l *Logger) SendDPad(x, y float32) error {
	log.Printf("%sdpad %+.1f %+.1f", l.Prefix, x, y)
	return nil
}

// SendKey logs a key transition.
func (l *Logger) SendKey(code int, pressed bool) error {
	state := "up"
	if pressed {
		state = "down"
	}
	log.Printf("%skey %d %s", l.Prefix, code, state)
	return nil
}

// SendAxis logs an axis value.
func (l *Logger) SendAxis(axis Axis, value float32) error {
	log.Printf("%saxis %v %+.1f", l.Prefix, axis, value)
	return nil
}

// Reset logs a reset.
func (l *Logger) Reset() error {
	log.Printf("%sreset", l.Prefix)
	return nil
}
