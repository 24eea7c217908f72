// Package overlay describes how the touch controls are drawn, independent of
// any graphics backend.
package overlay

import (
	"image/color"

	"github.com/phinze/ringpad/internal/touch"
)

// OpKind identifies a drawing primitive.
type OpKind int

const (
	OpDisk   OpKind = iota + 1 // Filled circle
	OpGlyph                    // Direction arrow
	OpButton                   // Rounded rectangle
	OpLabel                    // Centered text
)

// Op is one drawing primitive. Which fields are meaningful depends on Kind.
type Op struct {
	Kind OpKind

	// Disk and glyph placement
	Center touch.Point
	Radius float64

	// Button placement
	Rect         touch.Rect
	CornerRadius float64

	Color color.NRGBA

	Glyph     Glyph        // OpGlyph
	Button    touch.Button // OpButton, OpLabel
	Text      string       // OpLabel
	Highlight bool         // The control is active
}

// Appearance constants
const (
	GlyphOffset  = 50.0
	GlyphSize    = 40
	CornerRadius = 10.0

	glyphActiveAlpha = 255
	glyphIdleAlpha   = 100
)

var (
	dpadColor    = color.NRGBA{100, 100, 255, 80}
	pressedColor = color.NRGBA{50, 200, 50, 180}
	labelColor   = color.NRGBA{255, 255, 255, 255}

	idleColors = [touch.NumButtons]color.NRGBA{
		touch.Accelerate: {50, 200, 50, 100},
		touch.Brake:      {200, 50, 50, 100},
		touch.Drift:      {50, 50, 200, 100},
		touch.Item:       {200, 200, 50, 100},
	}
)

// ButtonColor returns the fill for b in the given pressed state.
func ButtonColor(b touch.Button, pressed bool) color.NRGBA {
	if pressed {
		return pressedColor
	}
	return idleColors[b]
}

// Project returns the drawing primitives for s, back to front. Hidden
// controls produce nothing.
func Project(s touch.State) []Op {
	if !s.Visible {
		return nil
	}
	l := s.Layout
	ops := make([]Op, 0, 1+len(glyphs)+2*touch.NumButtons)

	ops = append(ops, Op{
		Kind:      OpDisk,
		Center:    l.DPadCenter,
		Radius:    l.DPadRadius,
		Color:     dpadColor,
		Highlight: s.DPadHeld,
	})

	for _, g := range glyphs {
		active := s.Direction.Has(g.Direction())
		c := labelColor
		c.A = glyphIdleAlpha
		if active {
			c.A = glyphActiveAlpha
		}
		dx, dy := g.Direction().Axes()
		ops = append(ops, Op{
			Kind: OpGlyph,
			Center: touch.Point{
				X: l.DPadCenter.X + float64(dx)*GlyphOffset,
				Y: l.DPadCenter.Y + float64(dy)*GlyphOffset,
			},
			Radius:    GlyphSize / 2,
			Color:     c,
			Glyph:     g,
			Highlight: active,
		})
	}

	for _, b := range touch.Buttons {
		r := l.Buttons[b]
		pressed := s.Pressed[b]
		ops = append(ops,
			Op{
				Kind:         OpButton,
				Rect:         r,
				CornerRadius: CornerRadius,
				Color:        ButtonColor(b, pressed),
				Button:       b,
				Highlight:    pressed,
			},
			Op{
				Kind:      OpLabel,
				Center:    r.Center(),
				Color:     labelColor,
				Button:    b,
				Text:      b.Label(),
				Highlight: pressed,
			},
		)
	}
	return ops
}
