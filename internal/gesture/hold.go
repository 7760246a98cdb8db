package gesture

import "time"

// Hold defaults.
const (
	DefaultHoldFor         = time.Second
	DefaultHoldUpdateEvery = 250 * time.Millisecond
)

// Hold describes a press-and-hold: progress updates every UpdateEvery and
// completion after For.
type Hold struct {
	For         time.Duration
	UpdateEvery time.Duration
}

// DefineHold returns a Hold, substituting defaults for non-positive values.
func DefineHold(holdFor, updateEvery time.Duration) Hold {
	if holdFor <= 0 {
		holdFor = DefaultHoldFor
	}
	if updateEvery <= 0 {
		updateEvery = DefaultHoldUpdateEvery
	}
	return Hold{For: holdFor, UpdateEvery: updateEvery}
}

// HoldEvent is what a HoldTimer reports from Update.
type HoldEvent int

const (
	HoldNone HoldEvent = iota
	HoldProgress
	HoldComplete
)

// HoldTimer tracks one hold. It is polled rather than timer driven, so the
// owner decides which goroutine it runs on.
type HoldTimer struct {
	hold       Hold
	started    time.Time
	lastUpdate time.Time
	done       bool
}

// Begin starts a hold at now.
func (h Hold) Begin(now time.Time) *HoldTimer {
	return &HoldTimer{hold: h, started: now, lastUpdate: now}
}

// Update advances the timer to now. It reports HoldComplete exactly once,
// when the hold has lasted For, and HoldProgress at most once per
// UpdateEvery before that.
func (t *HoldTimer) Update(now time.Time) (HoldEvent, time.Duration) {
	if t == nil || t.done {
		return HoldNone, 0
	}

	held := now.Sub(t.started)
	if held >= t.hold.For {
		t.done = true
		return HoldComplete, held
	}
	if now.Sub(t.lastUpdate) >= t.hold.UpdateEvery {
		t.lastUpdate = now
		return HoldProgress, held
	}
	return HoldNone, held
}

// Stop cancels the hold; later updates report nothing.
func (t *HoldTimer) Stop() {
	if t != nil {
		t.done = true
	}
}
