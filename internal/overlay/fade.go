package overlay

import (
	"image/color"

	"github.com/phinze/ringpad/internal/touch"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Highlight fade durations, in seconds.
const (
	FadeIn  = 0.05
	FadeOut = 0.2
)

// Highlights eases each button between its idle and pressed colors so a
// quick tap is still visible for a few frames.
type Highlights struct {
	level  [touch.NumButtons]float32
	target [touch.NumButtons]bool
	tweens [touch.NumButtons]*gween.Tween
}

// Update retargets buttons whose pressed state changed and advances every
// running fade by dt seconds.
func (h *Highlights) Update(pressed [touch.NumButtons]bool, dt float32) {
	for _, b := range touch.Buttons {
		if pressed[b] != h.target[b] {
			h.target[b] = pressed[b]
			to, dur := float32(0), float32(FadeOut)
			if pressed[b] {
				to, dur = 1, FadeIn
			}
			h.tweens[b] = gween.New(h.level[b], to, dur, ease.OutQuad)
		}
		if h.tweens[b] == nil {
			continue
		}
		v, done := h.tweens[b].Update(dt)
		h.level[b] = v
		if done {
			h.tweens[b] = nil
		}
	}
}

// Level returns how far b is toward its pressed color, in [0, 1].
func (h *Highlights) Level(b touch.Button) float32 {
	return h.level[b]
}

// Color returns the current fill for b.
func (h *Highlights) Color(b touch.Button) color.NRGBA {
	return lerpNRGBA(ButtonColor(b, false), ButtonColor(b, true), h.level[b])
}

func lerpNRGBA(a, b color.NRGBA, t float32) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
