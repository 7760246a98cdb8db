// Package gesture turns pointer movement into a path of compass directions
// and fuzzy-matches that path against a target pattern.
package gesture

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Direction is one of eight compass octants in screen coordinates, where y
// grows downward. Directions form a cyclic group under addition modulo 8.
type Direction int

const (
	Right Direction = iota
	DownRight
	Down
	DownLeft
	Left
	UpLeft
	Up
	UpRight
)

// Quantizer constants.
const (
	// NumDirections is the number of compass octants.
	NumDirections = 8
	// Resolution is the number of entries in a SectorTable.
	Resolution = 128

	circleRads = 2 * math.Pi
	sectorRads = circleRads / NumDirections
)

var directionNames = [NumDirections]string{
	"RIGHT", "DOWNRIGHT", "DOWN", "DOWNLEFT", "LEFT", "UPLEFT", "UP", "UPRIGHT",
}

// String returns the upper-case name of the direction.
func (d Direction) String() string {
	if !d.IsValid() {
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
	return directionNames[d]
}

// IsValid reports whether d is in [0, 7].
func (d Direction) IsValid() bool {
	return d >= Right && d <= UpRight
}

// Opposite returns the diametrically opposite direction.
func (d Direction) Opposite() Direction {
	return (d + NumDirections/2) % NumDirections
}

// ParseDirection parses a single digit ("0".."7") or a direction name.
// Names are case-insensitive and ignore '-', '_' and spaces, so "down-left"
// and "DownLeft" are both DownLeft.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 && s[0] >= '0' && s[0] <= '7' {
		return Direction(s[0] - '0'), nil
	}

	name := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionDistance returns the number of octant steps between a and b along
// the shorter arc. The result is symmetric, zero iff a == b, and at most 4.
func DirectionDistance(a, b Direction) int {
	diff := int(a) - int(b)
	if diff < 0 {
		diff = -diff
	}
	diff %= NumDirections
	if diff > NumDirections/2 {
		return NumDirections - diff
	}
	return diff
}

// SectorTable maps angle steps around the circle to directions.
// It is immutable after construction and safe to share between goroutines.
type SectorTable struct {
	sectors [Resolution]Direction
}

// DefaultSectorTable is built once and shared by every Recognizer.
var DefaultSectorTable = NewSectorTable()

// NewSectorTable partitions the circle into Resolution equal steps and
// assigns each step the direction whose 1/8 sector it falls in.
// Quantize shifts angles by half a sector before lookup, so each direction
// ends up centred on its nominal angle.
func NewSectorTable() *SectorTable {
	t := &SectorTable{}
	for i := range t.sectors {
		t.sectors[i] = Direction(i * NumDirections / Resolution)
	}
	return t
}

// Len returns the number of entries in the table.
func (t *SectorTable) Len() int {
	return len(t.sectors)
}

// At returns the direction stored at index i, wrapping modulo the table
// length.
func (t *SectorTable) At(i int) Direction {
	n := len(t.sectors)
	return t.sectors[((i%n)+n)%n]
}

// Quantize maps the displacement (dx, dy) to a direction.
// A zero displacement has no angle; math.Atan2(0, 0) is 0, so (0, 0)
// always quantizes to Right.
func (t *SectorTable) Quantize(dx, dy float64) Direction {
	angle := math.Atan2(dy, dx) + sectorRads/2
	if angle < 0 {
		angle += circleRads
	}
	idx := int(math.Floor(angle / circleRads * Resolution))
	return t.At(idx)
}

// Quantize maps (dx, dy) to a direction using DefaultSectorTable.
func Quantize(dx, dy float64) Direction {
	return DefaultSectorTable.Quantize(dx, dy)
}
