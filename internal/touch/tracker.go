package touch

import "slices"

// Touch is one active contact in a sampled frame.
type Touch struct {
	ID    PointerID
	Point Point
}

// Tracker turns per-frame touch snapshots into an ordered event stream,
// for input layers that expose the set of active touches rather than
// discrete down/move/up callbacks.
type Tracker struct {
	last map[PointerID]Point
	gone []PointerID
}

// Update diffs touches against the previous frame and appends the resulting
// events to dst. Releases come first in ascending ID order, then moves and
// presses in the order touches lists them.
func (t *Tracker) Update(dst []Event, touches []Touch) []Event {
	if t.last == nil {
		t.last = make(map[PointerID]Point)
	}

	t.gone = t.gone[:0]
	for id := range t.last {
		if !containsID(touches, id) {
			t.gone = append(t.gone, id)
		}
	}
	slices.Sort(t.gone)
	for _, id := range t.gone {
		delete(t.last, id)
		dst = append(dst, Up(id))
	}

	for _, tc := range touches {
		prev, ok := t.last[tc.ID]
		switch {
		case !ok:
			dst = append(dst, Down(tc.ID, tc.Point))
		case prev != tc.Point:
			dst = append(dst, Move(tc.ID, tc.Point))
		default:
			continue
		}
		t.last[tc.ID] = tc.Point
	}
	return dst
}

// Cancel forgets every tracked touch. If any were active, a cancel event is
// appended to dst.
func (t *Tracker) Cancel(dst []Event) []Event {
	if len(t.last) == 0 {
		return dst
	}
	clear(t.last)
	return append(dst, Cancel())
}

// Active returns the number of tracked touches.
func (t *Tracker) Active() int {
	return len(t.last)
}

func containsID(touches []Touch, id PointerID) bool {
	for _, tc := range touches {
		if tc.ID == id {
			return true
		}
	}
	return false
}
