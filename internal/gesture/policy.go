package gesture

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	ErrEmptyPattern        = errors.New("pattern is empty")
	ErrInvalidDirection    = errors.New("invalid direction")
	ErrNegativeMinMoves    = errors.New("min moves must not be negative")
	ErrNegativeFudgeFactor = errors.New("fudge factor must not be negative")
)

// Default recognition settings.
const (
	DefaultMinMoves    = 8
	DefaultFudgeFactor = 5.0
)

// Config describes what a Recognizer looks for.
type Config struct {
	// MinMoves is the shortest path that is scored at all. Shorter paths,
	// such as taps, never match.
	MinMoves int `json:"min_moves"`

	// FudgeFactor is the exclusive upper bound on the score of a match.
	FudgeFactor float64 `json:"fudge_factor"`

	// Pattern is the target direction sequence.
	Pattern Pattern `json:"pattern"`
}

// DefaultConfig returns a Config with the default thresholds and the given
// pattern.
func DefaultConfig(p Pattern) Config {
	return Config{
		MinMoves:    DefaultMinMoves,
		FudgeFactor: DefaultFudgeFactor,
		Pattern:     p,
	}
}

// Validate rejects configurations that could never behave sensibly.
func (c Config) Validate() error {
	if c.MinMoves < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeMinMoves, c.MinMoves)
	}
	if c.FudgeFactor < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeFudgeFactor, c.FudgeFactor)
	}
	return c.Pattern.Validate()
}

// Evaluate reports whether path is long enough and close enough to the
// configured pattern to count as the gesture.
func Evaluate(path []Direction, cfg Config) bool {
	matched, _ := EvaluateScore(path, cfg)
	return matched
}

// EvaluateScore is like Evaluate but also returns the score. Paths shorter
// than MinMoves are not scored and report NoMatchScore.
func EvaluateScore(path []Direction, cfg Config) (bool, int) {
	if len(path) < cfg.MinMoves {
		return false, NoMatchScore
	}
	score := Score(path, cfg.Pattern)
	if score >= NoMatchScore {
		return false, score
	}
	return float64(score) < cfg.FudgeFactor, score
}
