package input

import "sync"

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameScheduler runs callbacks on the next rendering frame.
type FrameScheduler interface {
	// Request schedules fn for the next frame.
	Request(fn func()) FrameID
	// Cancel drops a pending callback. Cancelling a callback that already
	// ran, or an unknown id, does nothing.
	Cancel(id FrameID)
}

// FrameQueue is a FrameScheduler driven by explicit Step calls, either from
// a ticker or directly from tests.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func()
	order   []FrameID
}

// NewFrameQueue creates an empty FrameQueue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameID]func())}
}

// Request implements FrameScheduler.
func (q *FrameQueue) Request(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

// Cancel implements FrameScheduler.
func (q *FrameQueue) Cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// Step runs every callback that was pending when it was called, in request
// order, and returns how many ran. Callbacks requested while stepping wait
// for the next Step.
func (q *FrameQueue) Step() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			fns = append(fns, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of callbacks waiting for a frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Immediate is a FrameScheduler that runs each callback as soon as it is
// requested, which disables coalescing.
type Immediate struct{}

// Request runs fn and returns a zero id.
func (Immediate) Request(fn func()) FrameID {
	fn()
	return 0
}

// Cancel does nothing.
func (Immediate) Cancel(FrameID) {}
