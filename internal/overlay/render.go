package overlay

import (
	_ "embed"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"

	"github.com/phinze/ringpad/internal/touch"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Embedded arrow icons
var (
	//go:embed icons/arrow-left.svg
	iconLeft string

	//go:embed icons/arrow-right.svg
	iconRight string

	//go:embed icons/arrow-up.svg
	iconUp string

	//go:embed icons/arrow-down.svg
	iconDown string
)

// Glyph identifies a direction arrow on the D-pad.
type Glyph int

// Glyphs
const (
	GlyphLeft Glyph = iota + 1
	GlyphRight
	GlyphUp
	GlyphDown
)

var glyphs = [...]Glyph{GlyphLeft, GlyphRight, GlyphUp, GlyphDown}

// Direction returns the D-pad direction the glyph lights up for.
func (g Glyph) Direction() touch.Direction {
	switch g {
	case GlyphLeft:
		return touch.DirLeft
	case GlyphRight:
		return touch.DirRight
	case GlyphUp:
		return touch.DirUp
	case GlyphDown:
		return touch.DirDown
	}
	return touch.DirNone
}

func (g Glyph) svg() string {
	switch g {
	case GlyphLeft:
		return iconLeft
	case GlyphRight:
		return iconRight
	case GlyphUp:
		return iconUp
	case GlyphDown:
		return iconDown
	}
	return ""
}

// GlyphImage rasterizes g at size×size pixels, painted with c.
func GlyphImage(g Glyph, size int, c color.Color) image.Image {
	mask := image.NewAlpha(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(g.svg()))
	if err != nil {
		log.Printf("overlay: parsing glyph %d: %v", g, err)
		return paint(mask, c)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))
	icon.Draw(rasterx.NewDasher(size, size, rasterx.NewScannerGV(size, size, mask, mask.Bounds())), 1)

	return paint(mask, c)
}

// RoundRect rasterizes a w×h rounded rectangle filled with c.
func RoundRect(w, h int, radius float64, c color.Color) image.Image {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return paint(mask, c)
	}

	filler := rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, mask, mask.Bounds()))
	filler.SetColor(color.Opaque)
	rasterx.AddRoundRect(0, 0, float64(w), float64(h), radius, radius, 0, rasterx.RoundGap, filler)
	filler.Draw()

	return paint(mask, c)
}

// paint fills c through the coverage in mask.
func paint(mask *image.Alpha, c color.Color) image.Image {
	img := image.NewRGBA(mask.Bounds())
	draw.DrawMask(img, img.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
	return img
}
