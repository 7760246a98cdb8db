package app

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Reasons a match did not run an action.
const (
	SkipDisabled      = "disabled"
	SkipNoAction      = "no action bound"
	SkipActionOff     = "action disabled"
	SkipQueueFull     = "queue full"
	SkipPluginMissing = "plugin unavailable"
)

// MatchEvent reports what happened after a gesture matched.
type MatchEvent struct {
	GestureID   string           `json:"gesture_id"`
	GestureName string           `json:"gesture"`
	Match       gesture.Match    `json:"-"`
	Plugin      string           `json:"plugin,omitempty"`
	Action      string           `json:"action,omitempty"`
	Executed    bool             `json:"executed"`
	Skipped     string           `json:"skipped,omitempty"`
	Response    *plugin.Response `json:"response,omitempty"`
	Err         error            `json:"-"`
}

type job struct {
	gesture *store.Gesture
	match   gesture.Match
}

// Dispatch hands a match to the action worker. If the worker is not
// running the action runs on the caller's goroutine. A full queue drops
// the match rather than stall recognition.
func (a *App) Dispatch(g *store.Gesture, m gesture.Match) {
	a.mu.RLock()
	jobs := a.jobs
	if jobs != nil {
		select {
		case jobs <- job{gesture: g, match: m}:
			a.mu.RUnlock()
			return
		default:
		}
	}
	a.mu.RUnlock()

	if jobs != nil {
		monitoring.Logf("Dropping match for %s: action queue full", g.Name)
		a.notify(MatchEvent{GestureID: g.ID, GestureName: g.Name, Match: m, Skipped: SkipQueueFull})
		return
	}

	a.HandleMatch(context.Background(), g, m)
}

func (a *App) runDispatcher(jobs <-chan job, stop <-chan struct{}) {
	defer a.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-stop:
			return
		case j := <-jobs:
			a.HandleMatch(ctx, j.gesture, j.match)
		}
	}
}

// HandleMatch runs the action bound to g, if any, and tells every OnMatch
// listener the outcome.
func (a *App) HandleMatch(ctx context.Context, g *store.Gesture, m gesture.Match) MatchEvent {
	ev := a.runAction(ctx, g, m)
	a.notify(ev)
	return ev
}

func (a *App) runAction(ctx context.Context, g *store.Gesture, m gesture.Match) MatchEvent {
	ev := MatchEvent{GestureID: g.ID, GestureName: g.Name, Match: m}

	if !a.IsEnabled() {
		ev.Skipped = SkipDisabled
		return ev
	}
	if a.config.Store == nil {
		ev.Skipped = SkipNoAction
		return ev
	}

	action, err := a.config.Store.Actions().GetByGestureID(g.ID)
	if err != nil {
		monitoring.Logf("Failed to load action for %s: %v", g.Name, err)
		ev.Err = err
		return ev
	}
	if action == nil {
		ev.Skipped = SkipNoAction
		return ev
	}
	ev.Plugin, ev.Action = action.PluginName, action.ActionName
	if !action.Enabled {
		ev.Skipped = SkipActionOff
		return ev
	}

	p, err := a.pluginMgr.Resolve(action.PluginName, action.ActionName)
	if err != nil {
		monitoring.Logf("Cannot run %s for %s: %v", action.PluginName, g.Name, err)
		ev.Skipped = SkipPluginMissing
		ev.Err = err
		return ev
	}

	req, err := plugin.NewMatchRequest(action.ActionName, g.ID, g.Name, g.FudgeFactor, action.Config, m)
	if err != nil {
		ev.Err = err
		return ev
	}

	start := a.clock.Now()
	resp, err := a.pluginExec.Execute(ctx, p, req)
	elapsed := a.clock.Since(start).Round(time.Millisecond)
	if err != nil {
		monitoring.Logf("Action %s/%s for %s failed after %s: %v",
			action.PluginName, action.ActionName, g.Name, elapsed, err)
		ev.Err = err
		return ev
	}

	ev.Executed = true
	ev.Response = resp
	if !resp.Success {
		ev.Err = errors.New(resp.Error)
		monitoring.Logf("Action %s/%s for %s reported failure: %s",
			action.PluginName, action.ActionName, g.Name, resp.Error)
	} else {
		monitoring.Logf("Gesture %s matched (score %d), ran %s/%s",
			g.Name, m.Score, action.PluginName, action.ActionName)
	}
	return ev
}

func (a *App) notify(ev MatchEvent) {
	a.mu.Lock()
	a.lastMatch = &ev
	listeners := append([]func(MatchEvent){}, a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
