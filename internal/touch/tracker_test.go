package touch

import (
	"slices"
	"testing"
)

func TestTrackerUpdate(t *testing.T) {
	var tr Tracker

	frames := []struct {
		name    string
		touches []Touch
		want    []Event
	}{
		{
			name:    "first finger",
			touches: []Touch{{1, Point{0, 0}}},
			want:    []Event{Down(1, Point{0, 0})},
		},
		{
			name:    "second finger, first still",
			touches: []Touch{{1, Point{0, 0}}, {2, Point{5, 5}}},
			want:    []Event{Down(2, Point{5, 5})},
		},
		{
			name:    "first finger moves",
			touches: []Touch{{1, Point{3, 4}}, {2, Point{5, 5}}},
			want:    []Event{Move(1, Point{3, 4})},
		},
		{
			name:    "first finger lifts",
			touches: []Touch{{2, Point{5, 5}}},
			want:    []Event{Up(1)},
		},
		{
			name:    "no change",
			touches: []Touch{{2, Point{5, 5}}},
			want:    nil,
		},
		{
			name:    "all lifted",
			touches: nil,
			want:    []Event{Up(2)},
		},
	}
	for _, f := range frames {
		got := tr.Update(nil, f.touches)
		if !slices.Equal(got, f.want) {
			t.Errorf("%s: Update = %v, want %v", f.name, got, f.want)
		}
	}
	if tr.Active() != 0 {
		t.Errorf("Active() = %d, want 0", tr.Active())
	}
}

func TestTrackerReleasesBeforePresses(t *testing.T) {
	var tr Tracker
	tr.Update(nil, []Touch{{7, Point{1, 1}}, {3, Point{2, 2}}})

	got := tr.Update(nil, []Touch{{9, Point{4, 4}}})
	want := []Event{Up(3), Up(7), Down(9, Point{4, 4})}
	if !slices.Equal(got, want) {
		t.Errorf("Update = %v, want %v", got, want)
	}
}

func TestTrackerCancel(t *testing.T) {
	var tr Tracker
	if got := tr.Cancel(nil); len(got) != 0 {
		t.Errorf("Cancel with nothing tracked = %v, want none", got)
	}

	tr.Update(nil, []Touch{{1, Point{1, 1}}})
	got := tr.Cancel(nil)
	if !slices.Equal(got, []Event{Cancel()}) {
		t.Errorf("Cancel = %v, want a single cancel", got)
	}

	// A finger still down after the cancel comes back as a fresh press.
	got = tr.Update(nil, []Touch{{1, Point{1, 1}}})
	if !slices.Equal(got, []Event{Down(1, Point{1, 1})}) {
		t.Errorf("Update after cancel = %v, want a down", got)
	}
}

func TestTrackerDrivesController(t *testing.T) {
	c, rec := newTestController()
	l := c.Layout()
	var tr Tracker

	feed := func(touches ...Touch) {
		for _, e := range tr.Update(nil, touches) {
			c.Handle(e)
		}
	}

	feed(Touch{0, polar(l, 0, 60)})
	feed(Touch{0, polar(l, 0, 60)}, Touch{1, center(l, Accelerate)})
	feed(Touch{0, polar(l, -90, 60)}, Touch{1, center(l, Accelerate)})
	feed()
	expectEvents(t, rec, "dir:right", "press:accelerate", "dir:up", "dir:none", "release:accelerate")
}
