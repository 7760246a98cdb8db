package gesture

import (
	"github.com/ayusman/mudra/internal/timeutil"
)

// DefaultMaxPathLength bounds the number of directions a Recognizer keeps
// for one gesture attempt.
const DefaultMaxPathLength = 512

// Point is an absolute pointer position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DeltaFunc computes the displacement from prev to cur.
type DeltaFunc func(prev, cur Point) (dx, dy float64)

// Delta is the default DeltaFunc: plain coordinate subtraction.
func Delta(prev, cur Point) (dx, dy float64) {
	return cur.X - prev.X, cur.Y - prev.Y
}

// State is the state of a Recognizer.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Tracking means a gesture has started and moves are being recorded.
	Tracking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Result is the outcome of End.
type Result struct {
	Matched bool    `json:"matched"`
	Score   int     `json:"score"`
	Moves   int     `json:"moves"`
	Path    Pattern `json:"path"`
}

// Option customizes a Recognizer.
type Option func(*Recognizer)

// WithDeltaFunc replaces the displacement computation.
func WithDeltaFunc(fn DeltaFunc) Option {
	return func(r *Recognizer) {
		if fn != nil {
			r.delta = fn
		}
	}
}

// WithSectorTable replaces the shared sector table.
func WithSectorTable(t *SectorTable) Option {
	return func(r *Recognizer) {
		if t != nil {
			r.table = t
		}
	}
}

// WithClock sets the clock used for match timestamps and cooldowns.
func WithClock(c timeutil.Clock) Option {
	return func(r *Recognizer) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithMaxPathLength bounds the recorded path; once full, the oldest
// direction is dropped for each new one. Values <= 0 are ignored.
func WithMaxPathLength(n int) Option {
	return func(r *Recognizer) {
		if n > 0 {
			r.maxPath = n
		}
	}
}

// Recognizer accumulates one gesture attempt at a time and decides at the
// end whether it matched its pattern.
//
// A Recognizer is not safe for concurrent use. Start, Move, End and Cancel
// must be called from one goroutine in event order.
type Recognizer struct {
	cfg     Config
	table   *SectorTable
	delta   DeltaFunc
	clock   timeutil.Clock
	maxPath int
	onMatch func(Match)

	state  State
	origin Point
	last   Point
	moves  []Direction
}

// NewRecognizer creates a Recognizer for cfg. The configuration is
// validated here so that per-event calls never fail.
func NewRecognizer(cfg Config, cb Callback, opts ...Option) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Recognizer{
		cfg:     cfg,
		table:   DefaultSectorTable,
		delta:   Delta,
		clock:   timeutil.RealClock{},
		maxPath: DefaultMaxPathLength,
	}
	r.cfg.Pattern = NewPattern(cfg.Pattern...)

	for _, opt := range opts {
		opt(r)
	}
	r.onMatch = cb.resolve(r.clock)

	return r, nil
}

// Config returns the recognizer's configuration.
func (r *Recognizer) Config() Config {
	cfg := r.cfg
	cfg.Pattern = NewPattern(r.cfg.Pattern...)
	return cfg
}

// State returns the current state.
func (r *Recognizer) State() State {
	return r.state
}

// Path returns a copy of the directions recorded so far.
func (r *Recognizer) Path() Pattern {
	return NewPattern(r.moves...)
}

// Origin returns the position the current gesture started at.
func (r *Recognizer) Origin() Point {
	return r.origin
}

// Last returns the most recent position seen in the current gesture.
func (r *Recognizer) Last() Point {
	return r.last
}

// Start begins a gesture attempt at p. Starting while already tracking
// abandons the previous attempt without scoring it.
func (r *Recognizer) Start(p Point) {
	r.reset()
	r.state = Tracking
	r.origin = p
	r.last = p
}

// Move records the direction from the last position to p. Every move adds
// exactly one direction, however small. Moves while idle are ignored.
func (r *Recognizer) Move(p Point) {
	if r.state != Tracking {
		return
	}

	dx, dy := r.delta(r.last, p)
	d := r.table.Quantize(dx, dy)

	if len(r.moves) >= r.maxPath {
		copy(r.moves, r.moves[1:])
		r.moves = r.moves[:r.maxPath-1]
	}
	r.moves = append(r.moves, d)
	r.last = p
}

// End finishes the attempt, invokes the callback if the path matched, and
// resets to Idle regardless of the outcome. Ending while idle does nothing.
func (r *Recognizer) End() Result {
	if r.state != Tracking {
		return Result{Score: NoMatchScore}
	}

	path := r.Path()
	matched, score := EvaluateScore(path, r.cfg)
	r.reset()

	if matched {
		r.onMatch(Match{
			Score: score,
			Moves: len(path),
			Path:  path,
			At:    r.clock.Now(),
		})
	}

	return Result{Matched: matched, Score: score, Moves: len(path), Path: path}
}

// Cancel abandons the attempt without scoring it.
func (r *Recognizer) Cancel() {
	r.reset()
}

func (r *Recognizer) reset() {
	r.state = Idle
	r.origin = Point{}
	r.last = Point{}
	r.moves = r.moves[:0]
}
