package input

import (
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
)

var circleTrace = []gesture.Point{
	{X: 200, Y: 300},
	{X: 210, Y: 300},
	{X: 220, Y: 310},
	{X: 220, Y: 320},
	{X: 210, Y: 330},
	{X: 200, Y: 330},
	{X: 190, Y: 320},
	{X: 190, Y: 310},
	{X: 200, Y: 300},
	{X: 210, Y: 300},
}

func newRecognizer(t *testing.T, calls *int) *gesture.Recognizer {
	t.Helper()
	rec, err := gesture.NewRecognizer(gesture.DefaultConfig(gesture.Circle), gesture.Raw(func() { *calls++ }))
	if err != nil {
		t.Fatalf("NewRecognizer() error = %v", err)
	}
	return rec
}

func TestTouchHandler_CoalescesToLatest(t *testing.T) {
	calls := 0
	q := NewFrameQueue()
	h := NewTouchHandler(newRecognizer(t, &calls), q)

	h.Start(gesture.Point{X: 0, Y: 0})
	h.Move(gesture.Point{X: 10, Y: 0}) // right, discarded
	h.Move(gesture.Point{X: 10, Y: 10})
	h.Move(gesture.Point{X: 0, Y: 10}) // down, the latest

	if q.Pending() != 1 {
		t.Fatalf("expected one frame request, got %d", q.Pending())
	}
	if !h.Pending() {
		t.Error("expected a pending move")
	}

	q.Step()

	path := h.Recognizer().Path()
	if len(path) != 1 || path[0] != gesture.Down {
		t.Errorf("expected path [DOWN], got %v", path)
	}
	if h.Recognizer().Last() != (gesture.Point{X: 0, Y: 10}) {
		t.Errorf("last position = %v", h.Recognizer().Last())
	}
}

func TestTouchHandler_CircleOnePerFrame(t *testing.T) {
	calls := 0
	q := NewFrameQueue()
	h := NewTouchHandler(newRecognizer(t, &calls), q)

	h.Start(circleTrace[0])
	for _, p := range circleTrace[1:] {
		h.Move(p)
		q.Step()
	}
	result := h.End()

	if calls != 1 || !result.Matched {
		t.Errorf("expected one match, got %d calls and %+v", calls, result)
	}
}

func TestTouchHandler_EndDropsPendingMove(t *testing.T) {
	calls := 0
	q := NewFrameQueue()
	h := NewTouchHandler(newRecognizer(t, &calls), q)

	h.Start(gesture.Point{})
	h.Move(gesture.Point{X: 5})
	result := h.End()

	if result.Moves != 0 {
		t.Errorf("pending move was applied: %+v", result)
	}
	if q.Pending() != 0 {
		t.Errorf("frame still pending after End")
	}
	if q.Step() != 0 {
		t.Error("a cancelled frame ran")
	}
}

func TestTouchHandler_CancelReleasesFrame(t *testing.T) {
	calls := 0
	q := NewFrameQueue()
	h := NewTouchHandler(newRecognizer(t, &calls), q)

	h.Start(circleTrace[0])
	for _, p := range circleTrace[1:] {
		h.Move(p)
		q.Step()
	}
	h.Move(gesture.Point{X: 300, Y: 300})
	h.Cancel()

	if q.Pending() != 0 || h.Pending() {
		t.Error("cancel did not release the pending frame")
	}
	if h.Recognizer().State() != gesture.Idle {
		t.Errorf("state = %v after cancel", h.Recognizer().State())
	}
	if calls != 0 {
		t.Errorf("cancel invoked onMatch %d times", calls)
	}
}

func TestTouchHandler_ImmediateAppliesEveryMove(t *testing.T) {
	calls := 0
	h := NewTouchHandler(newRecognizer(t, &calls), nil)

	var seen []gesture.Point
	h.OnMove(func(p gesture.Point) { seen = append(seen, p) })

	h.Start(circleTrace[0])
	for _, p := range circleTrace[1:] {
		h.Move(p)
	}
	h.End()

	if len(seen) != len(circleTrace)-1 {
		t.Errorf("expected %d forwarded moves, got %d", len(circleTrace)-1, len(seen))
	}
	if calls != 1 {
		t.Errorf("expected one match, got %d", calls)
	}
}
