package touch

// EventType indicates the kind of raw touch sample.
type EventType uint8

const (
	// EventDown indicates a finger touched the surface.
	EventDown EventType = iota + 1
	// EventMove indicates an active finger moved.
	EventMove
	// EventUp indicates a finger left the surface.
	EventUp
	// EventCancel indicates the platform abandoned the whole gesture.
	EventCancel
)

func (t EventType) String() string {
	switch t {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	}
	return "unknown"
}

// Event is one raw touch sample.
type Event struct {
	// Type indicates what happened.
	Type EventType

	// Pointer identifies the contact.
	// Not meaningful for EventCancel.
	Pointer PointerID

	// Point is the contact position in surface coordinates.
	// Only meaningful for EventDown and EventMove.
	Point Point
}

// Down returns a down event for pointer id at p.
func Down(id PointerID, p Point) Event {
	return Event{Type: EventDown, Pointer: id, Point: p}
}

// Move returns a move event for pointer id at p.
func Move(id PointerID, p Point) Event {
	return Event{Type: EventMove, Pointer: id, Point: p}
}

// Up returns an up event for pointer id.
func Up(id PointerID) Event {
	return Event{Type: EventUp, Pointer: id}
}

// Cancel returns a gesture cancel event.
func Cancel() Event {
	return Event{Type: EventCancel}
}
