package input

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/timeutil"
)

// ErrSessionClosed is returned by Send after the session stopped.
var ErrSessionClosed = errors.New("session closed")

// DefaultFrameInterval is roughly one frame at 60fps.
const DefaultFrameInterval = 16 * time.Millisecond

// NoticeType identifies what a Notice reports.
type NoticeType string

const (
	NoticeResult       NoticeType = "result"
	NoticeMatch        NoticeType = "match"
	NoticeSwipe        NoticeType = "swipe"
	NoticeHoldProgress NoticeType = "hold_progress"
	NoticeHold         NoticeType = "hold"
)

// Notice is emitted by a Session as recognition progresses.
type Notice struct {
	Type     NoticeType `json:"type"`
	Gesture  string     `json:"gesture,omitempty"`
	Matched  bool       `json:"matched"`
	Score    int        `json:"score"`
	Moves    int        `json:"moves"`
	Path     string     `json:"path,omitempty"`
	Swipe    string     `json:"swipe,omitempty"`
	Progress float64    `json:"progress,omitempty"`
	HeldMs   int64      `json:"held_ms,omitempty"`
}

// SessionConfig controls a Session.
type SessionConfig struct {
	// FrameInterval is how often coalesced moves are applied. Zero applies
	// every move immediately.
	FrameInterval time.Duration

	// Swipe enables swipe notices when set.
	Swipe *gesture.Swipe

	// Hold enables hold notices when set.
	Hold *gesture.Hold

	// Clock drives frames and holds. Defaults to the real clock.
	Clock timeutil.Clock
}

// Session runs one client's gesture recognition on its own goroutine.
// Events are queued with Send and applied by Run; notices are delivered
// to emit from the Run goroutine.
type Session struct {
	cfg    SessionConfig
	clock  timeutil.Clock
	queue  *FrameQueue
	touch  *TouchHandler
	emit   func(Notice)
	events chan Event

	closeOnce sync.Once
	done      chan struct{}

	origin gesture.Point
	swiped map[gesture.SwipeDirection]bool
	hold   *gesture.HoldTimer
}

// NewSession creates a session around rec. emit may be nil.
func NewSession(rec *gesture.Recognizer, cfg SessionConfig, emit func(Notice)) *Session {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if emit == nil {
		emit = func(Notice) {}
	}

	s := &Session{
		cfg:    cfg,
		clock:  cfg.Clock,
		emit:   emit,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
		swiped: make(map[gesture.SwipeDirection]bool),
	}

	var sched FrameScheduler = Immediate{}
	if cfg.FrameInterval > 0 {
		s.queue = NewFrameQueue()
		sched = s.queue
	}
	s.touch = NewTouchHandler(rec, sched)
	s.touch.OnMove(s.checkSwipe)

	return s
}

// Send queues an event for the Run goroutine. It blocks while the queue is
// full.
func (s *Session) Send(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops Run. Any gesture in progress is abandoned without matching.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run applies events until ctx is cancelled or Close is called. It returns
// ctx.Err() on cancellation and nil after Close.
func (s *Session) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.queue != nil || s.cfg.Hold != nil {
		interval := s.cfg.FrameInterval
		if interval <= 0 {
			interval = DefaultFrameInterval
		}
		ticker := s.clock.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C()
	}

	for {
		select {
		case <-ctx.Done():
			s.abandon()
			return ctx.Err()
		case <-s.done:
			s.abandon()
			return nil
		case ev := <-s.events:
			s.apply(ev)
		case now := <-tick:
			s.Frame(now)
		}
	}
}

// Apply handles ev synchronously. It is meant for callers that drive the
// session without Run, and must not be mixed with a running loop.
func (s *Session) Apply(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	s.apply(ev)
	return nil
}

// Frame applies pending coalesced moves and polls the hold timer, as one
// tick of Run does.
func (s *Session) Frame(now time.Time) {
	if s.queue != nil {
		s.queue.Step()
	}
	s.pollHold(now)
}

func (s *Session) apply(ev Event) {
	switch ev.Type {
	case EventStart:
		s.origin = ev.Point()
		s.swiped = make(map[gesture.SwipeDirection]bool)
		s.stopHold()
		if s.cfg.Hold != nil {
			s.hold = s.cfg.Hold.Begin(s.clock.Now())
		}
		s.touch.Start(ev.Point())
	case EventMove:
		s.stopHold()
		s.touch.Move(ev.Point())
	case EventEnd:
		s.stopHold()
		result := s.touch.End()
		s.emit(Notice{
			Type:    NoticeResult,
			Matched: result.Matched,
			Score:   result.Score,
			Moves:   result.Moves,
			Path:    result.Path.String(),
		})
	case EventCancel:
		s.abandon()
	default:
		monitoring.Logf("[session] ignoring event type %q", ev.Type)
	}
}

func (s *Session) abandon() {
	s.stopHold()
	s.touch.Cancel()
}

func (s *Session) checkSwipe(p gesture.Point) {
	if s.cfg.Swipe == nil {
		return
	}
	for _, d := range s.cfg.Swipe.Detect(s.origin, p) {
		if s.swiped[d] {
			continue
		}
		s.swiped[d] = true
		s.emit(Notice{Type: NoticeSwipe, Swipe: d.String()})
	}
}

func (s *Session) pollHold(now time.Time) {
	if s.hold == nil {
		return
	}
	ev, held := s.hold.Update(now)
	switch ev {
	case gesture.HoldProgress:
		progress := float64(held) / float64(s.cfg.Hold.For)
		if progress > 1 {
			progress = 1
		}
		s.emit(Notice{Type: NoticeHoldProgress, Progress: progress, HeldMs: held.Milliseconds()})
	case gesture.HoldComplete:
		s.emit(Notice{Type: NoticeHold, Progress: 1, HeldMs: held.Milliseconds()})
		s.hold = nil
	}
}

func (s *Session) stopHold() {
	if s.hold != nil {
		s.hold.Stop()
		s.hold = nil
	}
}
