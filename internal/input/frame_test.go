package input

import "testing"

func TestFrameQueue_StepRunsPendingInOrder(t *testing.T) {
	q := NewFrameQueue()

	var order []int
	q.Request(func() { order = append(order, 1) })
	q.Request(func() { order = append(order, 2) })

	if q.Pending() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.Pending())
	}
	if ran := q.Step(); ran != 2 {
		t.Errorf("Step() ran %d callbacks, want 2", ran)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("unexpected order %v", order)
	}
	if q.Pending() != 0 {
		t.Errorf("expected queue to be empty, got %d", q.Pending())
	}
}

func TestFrameQueue_Cancel(t *testing.T) {
	q := NewFrameQueue()

	ran := false
	id := q.Request(func() { ran = true })
	q.Cancel(id)
	q.Cancel(id)
	q.Cancel(FrameID(99))

	if n := q.Step(); n != 0 || ran {
		t.Errorf("cancelled callback ran (n=%d)", n)
	}
}

func TestFrameQueue_RequestDuringStepWaits(t *testing.T) {
	q := NewFrameQueue()

	count := 0
	var again func()
	again = func() {
		count++
		q.Request(again)
	}
	q.Request(again)

	q.Step()
	q.Step()

	if count != 2 {
		t.Errorf("expected one run per step, got %d", count)
	}
	if q.Pending() != 1 {
		t.Errorf("expected the re-requested callback to be pending")
	}
}

func TestImmediate(t *testing.T) {
	ran := false
	if id := (Immediate{}).Request(func() { ran = true }); id != 0 {
		t.Errorf("Immediate.Request() = %d, want 0", id)
	}
	if !ran {
		t.Error("Immediate did not run the callback")
	}
}
