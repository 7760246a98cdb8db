// Package plugin discovers and runs the external programs that gestures
// are bound to.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/mudra/internal/gesture"
)

// Manifest describes a plugin, read from its plugin.json.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the plugin declares action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin as JSON.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// MatchParams describe the recognition that triggered a request.
type MatchParams struct {
	GestureID string  `json:"gesture_id"`
	Score     int     `json:"score"`
	Moves     int     `json:"moves"`
	Path      string  `json:"path"`
	Timestamp int64   `json:"timestamp"`
	Fudge     float64 `json:"fudge_factor"`
}

// NewMatchRequest builds the request sent when a gesture matches.
func NewMatchRequest(action, gestureID, gestureName string, fudge float64, config json.RawMessage, m gesture.Match) (*Request, error) {
	params, err := json.Marshal(MatchParams{
		GestureID: gestureID,
		Score:     m.Score,
		Moves:     m.Moves,
		Path:      m.Path.String(),
		Timestamp: m.At.UnixMilli(),
		Fudge:     fudge,
	})
	if err != nil {
		return nil, err
	}
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}
	return &Request{
		Action:  action,
		Gesture: gestureName,
		Config:  config,
		Params:  params,
	}, nil
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin and where it lives.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
