// Package haptics provides short press pulses for the touch controls.
package haptics

import (
	"bytes"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// DefaultPulse is the length of one press pulse.
const DefaultPulse = 15 * time.Millisecond

const (
	sampleRate   = 44100
	channelCount = 2
	clickFreq    = 180.0
)

// Nop discards pulses.
type Nop struct{}

// Pulse does nothing.
func (Nop) Pulse() {}

// Click renders each pulse as a short low click through the audio device,
// the closest a desktop gets to a vibration motor.
type Click struct {
	ready   chan struct{}
	samples []byte
	play    func(samples []byte)

	played atomic.Int64
}

// NewClick opens the audio device and prepares a click of length d.
func NewClick(d time.Duration) (*Click, error) {
	if d <= 0 {
		d = DefaultPulse
	}
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	return &Click{
		ready:   ready,
		samples: clickSamples(d),
		play: func(samples []byte) {
			player := ctx.NewPlayer(bytes.NewReader(samples))
			player.Play()
			for player.IsPlaying() {
				time.Sleep(time.Millisecond)
			}
			player.Close()
		},
	}, nil
}

// Pulse starts a click and returns immediately. Every pulse gets its own
// player, so presses in quick succession overlap rather than merge. Pulses
// that arrive before the device is ready play once it is.
func (c *Click) Pulse() {
	c.played.Add(1)
	go func() {
		<-c.ready
		c.play(c.samples)
	}()
}

// Played returns the number of pulses accepted.
func (c *Click) Played() int64 {
	return c.played.Load()
}

// clickSamples renders a decaying sine burst of length d as interleaved
// stereo float32 frames.
func clickSamples(d time.Duration) []byte {
	frames := int(d.Seconds() * sampleRate)
	buf := make([]byte, frames*channelCount*4)
	for i := 0; i < frames; i++ {
		t := float64(i) / sampleRate
		env := 1 - float64(i)/float64(frames)
		s := math.Sin(2*math.Pi*clickFreq*t) * env * env * 0.6
		putStereoF32(buf, i, s)
	}
	return buf
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}
