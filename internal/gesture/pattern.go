package gesture

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pattern is an ordered sequence of directions describing a template
// gesture, e.g. a clockwise circle is the eight directions from Right with
// Right repeated to close the loop.
type Pattern []Direction

// NewPattern builds a pattern from one or more directions.
func NewPattern(dirs ...Direction) Pattern {
	p := make(Pattern, len(dirs))
	copy(p, dirs)
	return p
}

// Common patterns.
var (
	Circle   = NewPattern(Right, DownRight, Down, DownLeft, Left, UpLeft, Up, UpRight, Right)
	UpCaret  = NewPattern(UpRight, DownRight)
	Alpha    = NewPattern(DownRight, Right, UpRight, Up, UpLeft, Left, DownLeft)
	Vertical = NewPattern(Down)
)

// ParsePattern parses the text form of a pattern. Two forms are accepted:
// a run of digits ("012345670"), or direction names or digits separated by
// commas or whitespace ("right, down-right, down").
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pattern{}, nil
	}

	if isDigitRun(s) {
		p := make(Pattern, len(s))
		for i := 0; i < len(s); i++ {
			p[i] = Direction(s[i] - '0')
		}
		return p, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	p := make(Pattern, 0, len(fields))
	for _, f := range fields {
		d, err := ParseDirection(f)
		if err != nil {
			return nil, err
		}
		p = append(p, d)
	}
	return p, nil
}

func isDigitRun(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

// MustParsePattern is like ParsePattern but panics on error.
// It is intended for package-level fixtures.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical digit form of the pattern.
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, d := range p {
		if d.IsValid() {
			b.WriteByte(byte('0' + d))
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// Validate checks that the pattern is non-empty and every entry is a valid
// direction.
func (p Pattern) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPattern
	}
	for i, d := range p {
		if !d.IsValid() {
			return fmt.Errorf("%w: %d at index %d", ErrInvalidDirection, int(d), i)
		}
	}
	return nil
}

// Collapse returns a copy of p with consecutive duplicates removed.
func (p Pattern) Collapse() Pattern {
	if len(p) == 0 {
		return Pattern{}
	}
	out := Pattern{p[0]}
	for _, d := range p[1:] {
		if d != out[len(out)-1] {
			out = append(out, d)
		}
	}
	return out
}

// MarshalJSON encodes the pattern as its digit string.
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a pattern string or an array of direction
// numbers.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePattern(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var dirs []int
	if err := json.Unmarshal(data, &dirs); err != nil {
		return fmt.Errorf("pattern must be a string or an array of directions: %w", err)
	}
	out := make(Pattern, len(dirs))
	for i, d := range dirs {
		out[i] = Direction(d)
	}
	*p = out
	return nil
}
