// Package input adapts raw pointer events to a gesture.Recognizer: it
// coalesces bursts of moves to one per frame and runs each client's
// recognition on a single goroutine.
package input

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrInvalidEvent is returned for events that cannot be applied.
var ErrInvalidEvent = errors.New("invalid event")

// EventType is the lifecycle step an Event represents.
type EventType string

const (
	EventStart  EventType = "start"
	EventMove   EventType = "move"
	EventEnd    EventType = "end"
	EventCancel EventType = "cancel"
)

// Event is one pointer event as sent by a client.
type Event struct {
	Type EventType `json:"type"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Point extracts the pointer position.
func (e Event) Point() gesture.Point {
	return gesture.Point{X: e.X, Y: e.Y}
}

// Validate checks the type and, for positioned events, the coordinates.
func (e Event) Validate() error {
	switch e.Type {
	case EventStart, EventMove:
		if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
			return fmt.Errorf("%w: non-finite position in %s", ErrInvalidEvent, e.Type)
		}
		return nil
	case EventEnd, EventCancel:
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
}

// TraceEvents converts a recorded trace into the events of one gesture:
// a start at the first point, a move per remaining point, and an end.
func TraceEvents(points []gesture.Point) []Event {
	if len(points) == 0 {
		return nil
	}
	events := make([]Event, 0, len(points)+1)
	events = append(events, Event{Type: EventStart, X: points[0].X, Y: points[0].Y})
	for _, p := range points[1:] {
		events = append(events, Event{Type: EventMove, X: p.X, Y: p.Y})
	}
	return append(events, Event{Type: EventEnd})
}

// Replay feeds a recorded trace to rec as one gesture and returns the
// result of its end. An empty trace is never scored.
func Replay(rec *gesture.Recognizer, points []gesture.Point) gesture.Result {
	result := gesture.Result{Score: gesture.NoMatchScore}
	for _, ev := range TraceEvents(points) {
		switch ev.Type {
		case EventStart:
			rec.Start(ev.Point())
		case EventMove:
			rec.Move(ev.Point())
		case EventEnd:
			result = rec.End()
		}
	}
	return result
}
