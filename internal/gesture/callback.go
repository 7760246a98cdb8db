package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/timeutil"
)

// Match describes a successful recognition.
type Match struct {
	Score int       // Edit distance between path and pattern
	Moves int       // Number of directions in the path
	Path  Pattern   // The accumulated path
	At    time.Time // When the gesture ended
}

// CallbackSettings tune how a configured callback is invoked.
type CallbackSettings struct {
	// Cooldown suppresses matches that end within this long of the
	// previous delivered match. Zero disables it.
	Cooldown time.Duration
}

type callbackKind int

const (
	callbackNone callbackKind = iota
	callbackRaw
	callbackConfigured
)

// Callback is invoked when a gesture matches. It is either Raw, a plain
// function, or Configured, a function paired with CallbackSettings.
// The zero Callback does nothing.
type Callback struct {
	kind     callbackKind
	raw      func()
	fn       func(Match)
	settings CallbackSettings
}

// Raw wraps a plain function as a Callback.
func Raw(fn func()) Callback {
	if fn == nil {
		return Callback{}
	}
	return Callback{kind: callbackRaw, raw: fn}
}

// Configured pairs fn with settings.
func Configured(settings CallbackSettings, fn func(Match)) Callback {
	if fn == nil {
		return Callback{}
	}
	return Callback{kind: callbackConfigured, fn: fn, settings: settings}
}

// IsConfigured reports whether c was built with Configured.
func (c Callback) IsConfigured() bool {
	return c.kind == callbackConfigured
}

// Settings returns the settings of a configured callback.
func (c Callback) Settings() CallbackSettings {
	return c.settings
}

// resolve turns the callback into the function called on every match.
func (c Callback) resolve(clock timeutil.Clock) func(Match) {
	switch c.kind {
	case callbackRaw:
		raw := c.raw
		return func(Match) { raw() }
	case callbackConfigured:
		if c.settings.Cooldown <= 0 {
			return c.fn
		}
		fn, cooldown := c.fn, c.settings.Cooldown
		var last time.Time
		var fired bool
		return func(m Match) {
			now := clock.Now()
			if fired && now.Sub(last) < cooldown {
				return
			}
			fired, last = true, now
			fn(m)
		}
	default:
		return func(Match) {}
	}
}
