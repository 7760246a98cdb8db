package gesture

import "math"

// DefaultSwipeDistance is the travel, in pointer units, a swipe needs.
const DefaultSwipeDistance = 100

// SwipeDirection is the axis-aligned direction of a swipe.
type SwipeDirection int

const (
	SwipeLeft SwipeDirection = iota
	SwipeRight
	SwipeUp
	SwipeDown
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return "unknown"
	}
}

// Swipe detects straight swipes from the start of a gesture.
type Swipe struct {
	Distance float64
}

// DefineSwipe returns a Swipe with the given distance, or
// DefaultSwipeDistance when distance is not positive.
func DefineSwipe(distance float64) Swipe {
	if distance <= 0 || math.IsNaN(distance) {
		distance = DefaultSwipeDistance
	}
	return Swipe{Distance: distance}
}

// Detect returns every direction in which the pointer has travelled
// strictly further than the swipe distance. Travelling exactly the distance
// is not a swipe. A diagonal movement can report two directions.
func (s Swipe) Detect(initial, current Point) []SwipeDirection {
	dx := current.X - initial.X
	dy := current.Y - initial.Y

	var out []SwipeDirection
	if -dx > s.Distance {
		out = append(out, SwipeLeft)
	}
	if dx > s.Distance {
		out = append(out, SwipeRight)
	}
	if -dy > s.Distance {
		out = append(out, SwipeUp)
	}
	if dy > s.Distance {
		out = append(out, SwipeDown)
	}
	return out
}
