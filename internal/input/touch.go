package input

import (
	"github.com/ayusman/mudra/internal/gesture"
)

// TouchHandler feeds lifecycle calls into a Recognizer, sampling moves at
// most once per frame. When a frame fires, the most recent position is
// forwarded and intermediate ones are discarded.
//
// A TouchHandler is not safe for concurrent use; the scheduler must run
// its callbacks on the goroutine that calls the handler.
type TouchHandler struct {
	rec    *gesture.Recognizer
	sched  FrameScheduler
	onMove func(gesture.Point)

	frame   FrameID
	pending bool
	latest  gesture.Point
}

// NewTouchHandler creates a handler for rec. A nil scheduler means
// Immediate.
func NewTouchHandler(rec *gesture.Recognizer, sched FrameScheduler) *TouchHandler {
	if sched == nil {
		sched = Immediate{}
	}
	return &TouchHandler{rec: rec, sched: sched}
}

// OnMove registers fn to be called with each position forwarded to the
// recognizer.
func (h *TouchHandler) OnMove(fn func(gesture.Point)) {
	h.onMove = fn
}

// Recognizer returns the wrapped recognizer.
func (h *TouchHandler) Recognizer() *gesture.Recognizer {
	return h.rec
}

// Pending reports whether a move is waiting for the next frame.
func (h *TouchHandler) Pending() bool {
	return h.pending
}

// Start begins a gesture at p, dropping any move still waiting for a frame.
func (h *TouchHandler) Start(p gesture.Point) {
	h.cancelFrame()
	h.rec.Start(p)
}

// Move records p as the latest position and requests a frame if none is
// pending.
func (h *TouchHandler) Move(p gesture.Point) {
	h.latest = p
	if h.pending {
		return
	}
	h.pending = true
	h.frame = h.sched.Request(h.flush)
}

// End drops any move still waiting for a frame and ends the gesture.
func (h *TouchHandler) End() gesture.Result {
	h.cancelFrame()
	return h.rec.End()
}

// Cancel drops any pending move and abandons the gesture.
func (h *TouchHandler) Cancel() {
	h.cancelFrame()
	h.rec.Cancel()
}

func (h *TouchHandler) flush() {
	h.pending = false
	h.frame = 0
	h.rec.Move(h.latest)
	if h.onMove != nil {
		h.onMove(h.latest)
	}
}

func (h *TouchHandler) cancelFrame() {
	if h.pending {
		h.sched.Cancel(h.frame)
	}
	h.pending = false
	h.frame = 0
}
