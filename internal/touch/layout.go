package touch

// Metrics are the fixed sizes the layout is derived from.
type Metrics struct {
	// Margin is the gap between the controls and the surface edges.
	Margin float64

	// DPadRadius is the visual radius of the D-pad disk.
	DPadRadius float64

	// ButtonSize is the side length of each square button.
	ButtonSize float64
}

// DefaultMetrics returns the stock control sizes.
func DefaultMetrics() Metrics {
	return Metrics{
		Margin:     50,
		DPadRadius: 100,
		ButtonSize: 90,
	}
}

// NewLayout places the controls on a width×height surface.
//
// The D-pad sits in the bottom-left corner. The buttons form a diamond in the
// bottom-right corner: Brake at the bottom, Drift on the left, Accelerate on
// the right, and Item on top.
func NewLayout(width, height float64, m Metrics) Layout {
	var l Layout
	l.DPadRadius = m.DPadRadius
	l.DPadCenter = Point{
		X: m.Margin + m.DPadRadius,
		Y: height - m.Margin - m.DPadRadius,
	}

	s := m.ButtonSize
	left := width - m.Margin - s*2
	bottom := height - m.Margin

	l.Buttons[Accelerate] = rect(left+s, bottom-s*2, left+s*2, bottom-s)
	l.Buttons[Brake] = rect(left, bottom-s, left+s, bottom)
	l.Buttons[Drift] = rect(left-s, bottom-s*2, left, bottom-s)
	l.Buttons[Item] = rect(left, bottom-s*3, left+s, bottom-s*2)
	return l
}

func rect(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}
