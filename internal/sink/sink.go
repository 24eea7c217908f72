// Package sink hands control changes from the input thread to the device.
package sink

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/phinze/ringpad/internal/device"
	"github.com/phinze/ringpad/internal/touch"
)

type itemKind int

const (
	itemDirection itemKind = iota + 1
	itemButton
	itemReset
)

// item is one queued control change.
type item struct {
	kind    itemKind
	dir     touch.Direction
	button  touch.Button
	pressed bool
}

// Sink queues control changes and delivers them to a device in emission
// order. It implements touch.Listener.
//
// DirectionChanged and ButtonChanged never block: they append to an
// unbounded queue and wake the worker. Changes reported while no device is
// attached are dropped.
type Sink struct {
	mode   Mode
	keymap Keymap

	mu     sync.Mutex
	queue  []item
	dev    device.Device
	notify chan struct{}

	// Worker-side state; touched only while delivering.
	deliverMu sync.Mutex
	held      map[int]bool
	controls  [device.NumControls]bool
}

// New creates a sink that maps controls with keymap according to mode.
func New(mode Mode, keymap Keymap) *Sink {
	return &Sink{
		mode:   mode,
		keymap: keymap,
		notify: make(chan struct{}, 1),
		held:   make(map[int]bool),
	}
}

// Attach starts forwarding to dev.
func (s *Sink) Attach(dev device.Device) {
	s.mu.Lock()
	s.dev = dev
	s.mu.Unlock()
}

// Detach stops forwarding. Queued changes and held-key tracking are
// discarded.
func (s *Sink) Detach() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	s.dev = nil
	s.queue = nil
	s.mu.Unlock()
	clear(s.held)
	s.controls = [device.NumControls]bool{}
}

// Attached reports whether a device is attached.
func (s *Sink) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev != nil
}

// Mode returns the D-pad mode.
func (s *Sink) Mode() Mode {
	return s.mode
}

// DirectionChanged queues a D-pad change.
func (s *Sink) DirectionChanged(dir touch.Direction) {
	s.push(item{kind: itemDirection, dir: dir})
}

// ButtonChanged queues a button change.
func (s *Sink) ButtonChanged(b touch.Button, pressed bool) {
	s.push(item{kind: itemButton, button: b, pressed: pressed})
}

// Reset queues a release of everything the device currently holds.
func (s *Sink) Reset() {
	s.push(item{kind: itemReset})
}

// Pending returns the number of queued changes.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Sink) push(it item) {
	s.mu.Lock()
	if s.dev == nil {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, it)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Run delivers queued changes until ctx is done.
func (s *Sink) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.notify:
			s.Drain()
		}
	}
}

// Drain delivers every queued change on the calling goroutine.
func (s *Sink) Drain() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.dev == nil {
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		dev := s.dev
		s.mu.Unlock()

		for _, it := range batch {
			s.deliver(dev, it)
		}
	}
}

func (s *Sink) deliver(dev device.Device, it item) {
	switch it.kind {
	case itemDirection:
		x, y := it.dir.Axes()
		s.steer(dev, float32(x), float32(y))
	case itemButton:
		if s.mode == ModeControl {
			s.control(dev, buttonControls[it.button], it.pressed)
			return
		}
		s.key(dev, s.keymap.Buttons[it.button], it.pressed)
	case itemReset:
		codes := make([]int, 0, len(s.held))
		for code := range s.held {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		for _, code := range codes {
			s.key(dev, code, false)
		}
		for c, on := range s.controls {
			if on {
				s.control(dev, device.Control(c), false)
			}
		}
		s.steer(dev, 0, 0)
		if err := dev.Reset(); err != nil {
			log.Printf("sink: reset: %v", err)
		}
	}
}

func (s *Sink) steer(dev device.Device, x, y float32) {
	switch s.mode {
	case ModeControl:
		if err := dev.SendDPad(x, y); err != nil {
			log.Printf("sink: dpad: %v", err)
		}
		return
	case ModeKeys:
		for _, k := range s.keymap.arrows(x, y) {
			s.key(dev, k.code, k.pressed)
		}
		return
	}
	if err := dev.SendAxis(device.AxisX, x); err != nil {
		log.Printf("sink: axis x: %v", err)
	}
	if err := dev.SendAxis(device.AxisY, y); err != nil {
		log.Printf("sink: axis y: %v", err)
	}
}

// control sends a control transition unless the control is already in that
// state.
func (s *Sink) control(dev device.Device, c device.Control, pressed bool) {
	if s.controls[c] == pressed {
		return
	}
	s.controls[c] = pressed
	if err := dev.SendControl(c, pressed); err != nil {
		log.Printf("sink: control %v: %v", c, err)
	}
}

// key sends a key transition unless the key is already in that state.
func (s *Sink) key(dev device.Device, code int, pressed bool) {
	if s.held[code] == pressed {
		return
	}
	if pressed {
		s.held[code] = true
	} else {
		delete(s.held, code)
	}
	if err := dev.SendKey(code, pressed); err != nil {
		log.Printf("sink: key %d: %v", code, err)
	}
}
