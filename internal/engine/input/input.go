// Package input defines backend-neutral input events.
package input

import "unicode"

// Event types for viewer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowResize:
		return "resize"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventMouseMove:
		return "mousemove"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	default:
		return "none"
	}
}

// Keys without a printable character.
const (
	KeyNone   rune = 0
	KeyEscape rune = 0x1b
)

// Mouse buttons, numbered the way SDL numbers them.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
// Key holds a lower-case character for printable keys.
type Event struct {
	Type   EventType
	Key    rune
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// KeyFromChar normalizes a character key to the form Event.Key uses.
func KeyFromChar(r rune) rune {
	if r < 0x20 && r != KeyEscape {
		return KeyNone
	}
	return unicode.ToLower(r)
}

// Queue collects the events of one frame.
type Queue struct {
	events []Event
}

// NewQueue creates an empty event queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the queued events and empties the queue. The returned
// slice is only valid until the next Push.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = q.events[:0]
	return out
}

// Len returns how many events are waiting.
func (q *Queue) Len() int { return len(q.events) }

// IsKeyPressed checks if a specific key went down in events.
func IsKeyPressed(events []Event, key rune) bool {
	for _, e := range events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}
