package touch

import "math"

const (
	// DPadSlack scales the D-pad radius for hit testing so the disk is
	// easy to re-engage without looking.
	DPadSlack = 1.2

	// DeadZoneRadius is the distance from the D-pad center, in surface
	// units, inside which no direction is reported. It does not scale
	// with the D-pad radius.
	DeadZoneRadius = 25.0
)

// Point is a position in surface coordinates. Y grows downward.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Layout holds the hit regions of every control for one surface size.
type Layout struct {
	DPadCenter Point
	DPadRadius float64
	Buttons    [NumButtons]Rect
}

func (l Layout) distance(p Point) float64 {
	return math.Hypot(p.X-l.DPadCenter.X, p.Y-l.DPadCenter.Y)
}

// InsideDPad reports whether p engages the D-pad.
func (l Layout) InsideDPad(p Point) bool {
	return l.distance(p) <= l.DPadRadius*DPadSlack
}

// InsideButton reports whether p lies inside the rectangle of b.
func (l Layout) InsideButton(p Point, b Button) bool {
	if int(b) >= NumButtons {
		return false
	}
	return l.Buttons[b].Contains(p)
}

// InDeadZone reports whether p is close enough to the D-pad center to count
// as centered.
func (l Layout) InDeadZone(p Point) bool {
	return l.distance(p) <= DeadZoneRadius
}

// Octant maps p to a D-pad direction relative to the D-pad center.
//
// Each direction owns a 120° window centered on its axis. Adjacent windows
// overlap by 30° around the diagonals, which yields the diagonal pairs;
// opposite windows never overlap.
func (l Layout) Octant(p Point) Direction {
	if l.InDeadZone(p) {
		return DirNone
	}
	angle := math.Atan2(p.Y-l.DPadCenter.Y, p.X-l.DPadCenter.X) * 180 / math.Pi

	var d Direction
	if angle >= -60 && angle < 60 {
		d |= DirRight
	}
	if angle >= 120 || angle < -120 {
		d |= DirLeft
	}
	if angle >= 30 && angle < 150 {
		d |= DirDown
	}
	if angle >= -150 && angle < -30 {
		d |= DirUp
	}
	return d
}
