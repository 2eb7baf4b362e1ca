package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromChar(t *testing.T) {
	tests := []struct {
		in   rune
		want rune
	}{
		{'w', 'w'},
		{'W', 'w'},
		{'z', 'z'},
		{KeyEscape, KeyEscape},
		{'\t', KeyNone},
		{' ', ' '},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyFromChar(tt.in), "KeyFromChar(%q)", tt.in)
	}
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventKeyDown, Key: 'w'})
	q.Push(Event{Type: EventMouseMove, MouseX: 3, MouseY: 4})
	assert.Equal(t, 2, q.Len())

	events := q.Drain()
	assert.Len(t, events, 2)
	assert.Equal(t, EventMouseMove, events[1].Type)
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestIsKeyPressed(t *testing.T) {
	events := []Event{
		{Type: EventKeyUp, Key: 's'},
		{Type: EventKeyDown, Key: 'w'},
	}
	assert.True(t, IsKeyPressed(events, 'w'))
	assert.False(t, IsKeyPressed(events, 's'))
	assert.False(t, IsKeyPressed(nil, 'w'))
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "resize", EventWindowResize.String())
	assert.Equal(t, "none", EventType(99).String())
}
