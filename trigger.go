package mercator

import (
	"github.com/akmonengine/mercator/sphere"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DRAG_START EventType = iota
	DRAG_MOVE
	DRAG_END
	RESIZE
	RENDERED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// DragStartEvent is sent when a pointer goes down on the map
type DragStartEvent struct {
	// Anchor is the grabbed point, in the unrotated frame of the data
	Anchor sphere.GeoPoint
}

func (e DragStartEvent) Type() EventType { return DRAG_START }

// DragMoveEvent is sent for every pointer move while dragging
type DragMoveEvent struct {
	// To is the point under the pointer, in chart frame
	To       sphere.GeoPoint
	Rotation mgl64.Mat3
}

func (e DragMoveEvent) Type() EventType { return DRAG_MOVE }

// DragEndEvent is sent when the drag is committed
type DragEndEvent struct {
	Base mgl64.Mat3
}

func (e DragEndEvent) Type() EventType { return DRAG_END }

// ResizeEvent is sent when the chart bounds change
type ResizeEvent struct {
	Width   float64
	Height  float64
	ViewBox string
}

func (e ResizeEvent) Type() EventType { return RESIZE }

// RenderedEvent summarizes a frame
type RenderedEvent struct {
	Polygons int
	// Crossing counts the polygons that crossed the antimeridian
	Crossing int

	Simple       int
	FullWrap     int
	EdgeTouching int
}

func (e RenderedEvent) Type() EventType { return RENDERED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 8),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
