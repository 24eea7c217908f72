// Package touch turns raw multi-finger touch streams into a virtual D-pad
// direction and a fixed set of button states.
package touch

import "strings"

// PointerID identifies one continuous finger contact from press to release.
// The input layer does not reuse an ID while its contact is active.
type PointerID int

// Direction is a bitmask over the four D-pad directions.
// Only the empty mask, single directions, and adjacent pairs (diagonals)
// are ever produced; opposite pairs never are.
type Direction uint8

const (
	DirNone  Direction = 0
	DirLeft  Direction = 1
	DirRight Direction = 2
	DirUp    Direction = 4
	DirDown  Direction = 8
)

// Has reports whether every bit of o is set in d.
func (d Direction) Has(o Direction) bool {
	return o != DirNone && d&o == o
}

// Axes converts the direction to virtual stick axes in {-1, 0, 1}.
// Right and Down are positive, matching screen coordinates.
func (d Direction) Axes() (x, y int) {
	if d.Has(DirLeft) {
		x = -1
	}
	if d.Has(DirRight) {
		x = 1
	}
	if d.Has(DirUp) {
		y = -1
	}
	if d.Has(DirDown) {
		y = 1
	}
	return x, y
}

func (d Direction) String() string {
	if d == DirNone {
		return "none"
	}
	var parts []string
	for _, dir := range []struct {
		bit  Direction
		name string
	}{
		{DirLeft, "left"},
		{DirRight, "right"},
		{DirUp, "up"},
		{DirDown, "down"},
	} {
		if d.Has(dir.bit) {
			parts = append(parts, dir.name)
		}
	}
	return strings.Join(parts, "|")
}

// Button identifies one of the on-screen buttons.
type Button uint8

const (
	Accelerate Button = iota
	Brake
	Drift
	Item

	// NumButtons is the number of on-screen buttons.
	NumButtons = 4
)

// Buttons lists every button in hit-test order.
var Buttons = [NumButtons]Button{Accelerate, Brake, Drift, Item}

func (b Button) String() string {
	switch b {
	case Accelerate:
		return "accelerate"
	case Brake:
		return "brake"
	case Drift:
		return "drift"
	case Item:
		return "item"
	}
	return "unknown"
}

// Label returns the short caption drawn on the button.
func (b Button) Label() string {
	switch b {
	case Accelerate:
		return "GAS"
	case Brake:
		return "BRAKE"
	case Drift:
		return "DRIFT"
	case Item:
		return "ITEM"
	}
	return ""
}
