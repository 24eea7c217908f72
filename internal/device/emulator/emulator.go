// Package emulator provides a desktop touch surface for the controls, backed
// by Ebitengine. The mouse acts as one extra finger.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phinze/ringpad/internal/overlay"
	"github.com/phinze/ringpad/internal/touch"
	"golang.org/x/image/font/basicfont"
)

// Window defaults
const (
	windowWidth  = 1280
	windowHeight = 720
)

// MousePointer is the pointer ID the left mouse button drives. Ebitengine
// touch IDs are never negative.
const MousePointer touch.PointerID = -1

// Controls is the input side of the coordinator.
type Controls interface {
	Resize(width, height float64)
	Touches(ts []touch.Touch)
	CancelGesture()
	SetVisible(visible bool)
	Visible() bool
	State() touch.State
}

// Emulator implements ebiten.Game, sampling touches and the mouse each frame
// and drawing the controls.
type Emulator struct {
	controls Controls
	title    string

	// Input state (managed by game loop)
	touchIDs []ebiten.TouchID
	touches  []touch.Touch
	focused  bool

	// Drawing state (managed by game loop)
	highlights overlay.Highlights
	face       text.Face
	glyphs     map[overlay.Glyph]*ebiten.Image
	buttons    map[image.Point]*ebiten.Image

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an emulator driving controls.
func New(controls Controls, title string) *Emulator {
	return &Emulator{
		controls: controls,
		title:    title,
		focused:  true,
		face:     text.NewGoXFace(basicfont.Face7x13),
		glyphs:   make(map[overlay.Glyph]*ebiten.Image),
		buttons:  make(map[image.Point]*ebiten.Image),
		stopCh:   make(chan struct{}),
	}
}

// Close asks the game loop to stop.
func (e *Emulator) Close() error {
	e.stopOnce.Do(func() { close(e.stopCh) })
	return nil
}

// RunGUI starts the Ebitengine loop. This MUST be called from the main
// goroutine on macOS due to Cocoa threading requirements. It blocks until the
// window is closed or Close is called.
func (e *Emulator) RunGUI() error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(e.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(e); err != nil {
		return fmt.Errorf("emulator: %w", err)
	}
	return nil
}

// Update samples input for one frame.
func (e *Emulator) Update() error {
	select {
	case <-e.stopCh:
		return ebiten.Termination
	default:
	}

	// Losing focus cancels the gesture; fingers still down when focus
	// returns start fresh.
	if !ebiten.IsFocused() {
		if e.focused {
			e.controls.CancelGesture()
			e.focused = false
		}
		return nil
	}
	e.focused = true

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		e.controls.SetVisible(!e.controls.Visible())
	}

	e.controls.Touches(e.sample())

	dt := 1 / float32(ebiten.TPS())
	e.highlights.Update(e.controls.State().Pressed, dt)
	return nil
}

// sample collects the active touches and the mouse for this frame.
func (e *Emulator) sample() []touch.Touch {
	e.touches = e.touches[:0]
	e.touchIDs = ebiten.AppendTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		x, y := ebiten.TouchPosition(id)
		e.touches = append(e.touches, touch.Touch{
			ID:    touch.PointerID(id),
			Point: touch.Point{X: float64(x), Y: float64(y)},
		})
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		e.touches = append(e.touches, touch.Touch{
			ID:    MousePointer,
			Point: touch.Point{X: float64(x), Y: float64(y)},
		})
	}
	return e.touches
}

// Draw renders the controls.
func (e *Emulator) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	for _, op := range overlay.Project(e.controls.State()) {
		switch op.Kind {
		case overlay.OpDisk:
			vector.DrawFilledCircle(screen, float32(op.Center.X), float32(op.Center.Y), float32(op.Radius), op.Color, true)

		case overlay.OpGlyph:
			img := e.glyph(op.Glyph)
			opts := &ebiten.DrawImageOptions{}
			opts.GeoM.Translate(op.Center.X-op.Radius, op.Center.Y-op.Radius)
			opts.ColorScale.ScaleAlpha(float32(op.Color.A) / 255)
			screen.DrawImage(img, opts)

		case overlay.OpButton:
			w, h := int(op.Rect.Dx()), int(op.Rect.Dy())
			if w <= 0 || h <= 0 {
				continue
			}
			img := e.button(w, h, op.CornerRadius)
			opts := &ebiten.DrawImageOptions{}
			opts.GeoM.Translate(op.Rect.Min.X, op.Rect.Min.Y)
			opts.ColorScale.ScaleWithColor(e.highlights.Color(op.Button))
			screen.DrawImage(img, opts)

		case overlay.OpLabel:
			opts := &text.DrawOptions{}
			opts.GeoM.Translate(op.Center.X, op.Center.Y)
			opts.ColorScale.ScaleWithColor(op.Color)
			opts.PrimaryAlign = text.AlignCenter
			opts.SecondaryAlign = text.AlignCenter
			text.Draw(screen, op.Text, e.face, opts)
		}
	}

	hint := "F1: hide controls"
	if !e.controls.Visible() {
		hint = "F1: show controls"
	}
	ebitenutil.DebugPrintAt(screen, hint, 10, 8)
}

// Layout follows the window size so the controls can be laid out for any
// aspect ratio.
func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.controls.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// glyph returns the cached white arrow image for g.
func (e *Emulator) glyph(g overlay.Glyph) *ebiten.Image {
	if img, ok := e.glyphs[g]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(overlay.GlyphImage(g, overlay.GlyphSize, color.White))
	e.glyphs[g] = img
	return img
}

// button returns the cached white rounded rectangle for a w×h button.
func (e *Emulator) button(w, h int, radius float64) *ebiten.Image {
	key := image.Point{X: w, Y: h}
	if img, ok := e.buttons[key]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(overlay.RoundRect(w, h, radius, color.White))
	e.buttons[key] = img
	return img
}
