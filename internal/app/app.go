// Package app wires stored gestures, live recognition sessions and plugin
// actions together.
package app

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/timeutil"
)

// Defaults used when Config leaves them unset.
const (
	DefaultPluginTimeoutMs = 5000
	DefaultQueueSize       = 32
)

// enabledKey is the settings key the enabled flag is persisted under.
const enabledKey = "enabled"

// ErrNoStore is returned by operations that need a store when none is
// configured.
var ErrNoStore = errors.New("no store configured")

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	PluginDir       string
	PluginTimeoutMs int

	// Session is the template for live recognition sessions.
	Session input.SessionConfig

	// Cooldown suppresses repeat matches within one session.
	Cooldown time.Duration

	// QueueSize bounds the matches waiting for their action to run.
	QueueSize int

	Clock timeutil.Clock
}

// App is the main application: it builds recognizers from stored gestures
// and runs the bound plugin action when one matches.
type App struct {
	config     Config
	clock      timeutil.Clock
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu        sync.RWMutex
	enabled   bool
	listeners []func(MatchEvent)
	lastMatch *MatchEvent

	jobs   chan job
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new App instance with the given configuration. Actions are
// enabled until LoadSettings or SetEnabled says otherwise.
func New(config Config) *App {
	if config.PluginTimeoutMs <= 0 {
		config.PluginTimeoutMs = DefaultPluginTimeoutMs
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.Clock == nil {
		config.Clock = timeutil.RealClock{}
	}
	if config.Session.Clock == nil {
		config.Session.Clock = config.Clock
	}

	return &App{
		config:     config,
		clock:      config.Clock,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeoutMs),
		enabled:    true,
	}
}

// Store returns the configured store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// LoadSettings restores persisted runtime state such as the enabled flag.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	v, err := a.config.Store.Settings().GetOr(enabledKey, "true")
	if err != nil {
		return err
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		monitoring.Logf("Ignoring invalid %s setting %q", enabledKey, v)
		enabled = true
	}

	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()
	return nil
}

// SetEnabled turns action execution on or off. Recognition keeps running
// while disabled; matches are reported but their actions are skipped.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(enabledKey, strconv.FormatBool(enabled)); err != nil {
			monitoring.Logf("Failed to persist %s setting: %v", enabledKey, err)
		}
	}
}

// IsEnabled reports whether matched gestures run their actions.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnMatch registers fn to be told about every handled match.
func (a *App) OnMatch(fn func(MatchEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// LastMatch returns the most recently handled match, if any.
func (a *App) LastMatch() (MatchEvent, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastMatch == nil {
		return MatchEvent{}, false
	}
	return *a.lastMatch, true
}

// Gesture loads a stored gesture.
func (a *App) Gesture(id string) (*store.Gesture, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}
	return a.config.Store.Gestures().GetByID(id)
}

// NewRecognizer builds a recognizer for a stored gesture. onMatch, if not
// nil, is called on the recognizer's goroutine before the match is queued
// for its action.
func (a *App) NewRecognizer(gestureID string, onMatch func(gesture.Match)) (*gesture.Recognizer, *store.Gesture, error) {
	g, err := a.Gesture(gestureID)
	if err != nil {
		return nil, nil, err
	}

	cb := gesture.Configured(gesture.CallbackSettings{Cooldown: a.config.Cooldown}, func(m gesture.Match) {
		if onMatch != nil {
			onMatch(m)
		}
		a.Dispatch(g, m)
	})

	rec, err := gesture.NewRecognizer(g.Config(), cb, gesture.WithClock(a.clock))
	if err != nil {
		return nil, nil, fmt.Errorf("gesture %s: %w", g.Name, err)
	}
	return rec, g, nil
}

// NewSession builds a live recognition session for a stored gesture.
// Notices, including a match notice ahead of each matching result, go to
// emit on the session's goroutine.
func (a *App) NewSession(gestureID string, emit func(input.Notice)) (*input.Session, error) {
	if emit == nil {
		emit = func(input.Notice) {}
	}

	var name string
	rec, g, err := a.NewRecognizer(gestureID, func(m gesture.Match) {
		emit(input.Notice{
			Type:    input.NoticeMatch,
			Gesture: name,
			Matched: true,
			Score:   m.Score,
			Moves:   m.Moves,
			Path:    m.Path.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	name = g.Name

	return input.NewSession(rec, a.config.Session, emit), nil
}

// Recognize runs a recorded trace through a stored gesture's recognizer
// without running any action.
func (a *App) Recognize(gestureID string, points []gesture.Point) (gesture.Result, error) {
	g, err := a.Gesture(gestureID)
	if err != nil {
		return gesture.Result{}, err
	}
	return RecognizeTrace(g.Config(), points)
}

// RecognizeTrace runs a recorded trace through a fresh recognizer for cfg.
func RecognizeTrace(cfg gesture.Config, points []gesture.Point) (gesture.Result, error) {
	rec, err := gesture.NewRecognizer(cfg, gesture.Callback{})
	if err != nil {
		return gesture.Result{}, err
	}

	return input.Replay(rec, points), nil
}

// Train derives a gesture's pattern and fudge factor from its stored
// samples and saves them.
func (a *App) Train(gestureID string) (*store.Gesture, *gesture.TrainResult, error) {
	g, err := a.Gesture(gestureID)
	if err != nil {
		return nil, nil, err
	}

	samples, err := a.config.Store.Samples().RawData(gestureID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load samples: %w", err)
	}

	result, err := gesture.NewTrainer().TrainPattern(samples)
	if err != nil {
		return nil, nil, err
	}

	g.Pattern = result.Pattern
	g.FudgeFactor = result.SuggestedFudge
	if err := a.config.Store.Gestures().Update(g); err != nil {
		return nil, nil, fmt.Errorf("failed to save trained gesture: %w", err)
	}

	monitoring.Logf("Trained %s from %d samples: pattern=%s fudge=%.0f",
		g.Name, len(samples), g.Pattern, g.FudgeFactor)
	return g, result, nil
}

// Start launches the action worker. Until Start is called, Dispatch runs
// actions synchronously.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	a.jobs = make(chan job, a.config.QueueSize)
	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runDispatcher(a.jobs, a.stopCh)

	monitoring.Logf("Action dispatcher started")
	return nil
}

// Stop halts the action worker and cancels the action in progress.
// Queued matches that have not started are dropped.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.jobs = nil
	a.mu.Unlock()

	a.wg.Wait()
	monitoring.Logf("Action dispatcher stopped")
}
