// Package config loads the mudra settings file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/monitoring"
)

// Settings are the user-tunable values read from settings.json.
type Settings struct {
	Addr            string  `json:"addr"`
	DBPath          string  `json:"db_path"`
	PluginDir       string  `json:"plugin_dir"`
	StaticDir       string  `json:"static_dir"`
	FrameIntervalMs int     `json:"frame_interval_ms"`
	MinMoves        int     `json:"min_moves"`
	FudgeFactor     float64 `json:"fudge_factor"`
	SwipeDistance   float64 `json:"swipe_distance"`
	HoldMs          int     `json:"hold_ms"`
	PluginTimeoutMs int     `json:"plugin_timeout_ms"`
	Tray            bool    `json:"tray"`
}

// FrameInterval returns the frame interval as a duration.
func (s *Settings) FrameInterval() time.Duration {
	return time.Duration(s.FrameIntervalMs) * time.Millisecond
}

// HoldFor returns the hold duration.
func (s *Settings) HoldFor() time.Duration {
	return time.Duration(s.HoldMs) * time.Millisecond
}

// Recognition returns the default recognizer thresholds for new gestures.
func (s *Settings) Recognition() gesture.Config {
	return gesture.Config{MinMoves: s.MinMoves, FudgeFactor: s.FudgeFactor}
}

// Session returns the settings for live recognition sessions.
func (s *Settings) Session() input.SessionConfig {
	swipe := gesture.DefineSwipe(s.SwipeDistance)
	hold := gesture.DefineHold(s.HoldFor(), 0)
	return input.SessionConfig{
		FrameInterval: s.FrameInterval(),
		Swipe:         &swipe,
		Hold:          &hold,
	}
}

// Dir returns the mudra data directory (~/.mudra), creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the location of settings.json.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Defaults returns the built-in settings. dataDir holds the database and
// plugins.
func Defaults(dataDir string) *Settings {
	return &Settings{
		Addr:            ":8080",
		DBPath:          filepath.Join(dataDir, "mudra.db"),
		PluginDir:       filepath.Join(dataDir, "plugins"),
		FrameIntervalMs: 16,
		MinMoves:        gesture.DefaultMinMoves,
		FudgeFactor:     gesture.DefaultFudgeFactor,
		SwipeDistance:   gesture.DefaultSwipeDistance,
		HoldMs:          int(gesture.DefaultHoldFor / time.Millisecond),
		PluginTimeoutMs: 5000,
	}
}

// Load reads settings from path. A missing file is created with the
// defaults; an unreadable one falls back to them. Out of range values are
// replaced by their default.
func Load(path string) (*Settings, error) {
	defaults := Defaults(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			monitoring.Logf("Creating default settings file at %s", path)
			if err := Save(path, defaults); err != nil {
				monitoring.Logf("Failed to create default settings file: %v", err)
			}
			return defaults, nil
		}
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		monitoring.Logf("Invalid settings file, using defaults: %v", err)
		return defaults, nil
	}

	known := knownKeys(Settings{})
	for key := range raw {
		if !known[key] {
			monitoring.Logf("Warning: unrecognised setting key '%s' in settings file", key)
		}
	}

	// Unmarshal over the defaults so that omitted keys keep them
	settings := *defaults
	if err := json.Unmarshal(data, &settings); err != nil {
		monitoring.Logf("Invalid settings file, using defaults: %v", err)
		return defaults, nil
	}

	clamp(&settings, defaults)
	return &settings, nil
}

// Save writes settings to path as indented JSON.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func clamp(s, defaults *Settings) {
	if s.Addr == "" {
		s.Addr = defaults.Addr
	}
	if s.FrameIntervalMs <= 0 || s.FrameIntervalMs > 1000 {
		monitoring.Logf("Invalid frame_interval_ms %d, using default %d", s.FrameIntervalMs, defaults.FrameIntervalMs)
		s.FrameIntervalMs = defaults.FrameIntervalMs
	}
	if s.MinMoves < 0 {
		monitoring.Logf("Invalid min_moves %d, using default %d", s.MinMoves, defaults.MinMoves)
		s.MinMoves = defaults.MinMoves
	}
	if s.FudgeFactor < 0 {
		monitoring.Logf("Invalid fudge_factor %.2f, using default %.2f", s.FudgeFactor, defaults.FudgeFactor)
		s.FudgeFactor = defaults.FudgeFactor
	}
	if s.SwipeDistance <= 0 {
		monitoring.Logf("Invalid swipe_distance %.2f, using default %.2f", s.SwipeDistance, defaults.SwipeDistance)
		s.SwipeDistance = defaults.SwipeDistance
	}
	if s.HoldMs <= 0 {
		monitoring.Logf("Invalid hold_ms %d, using default %d", s.HoldMs, defaults.HoldMs)
		s.HoldMs = defaults.HoldMs
	}
	if s.PluginTimeoutMs <= 0 {
		monitoring.Logf("Invalid plugin_timeout_ms %d, using default %d", s.PluginTimeoutMs, defaults.PluginTimeoutMs)
		s.PluginTimeoutMs = defaults.PluginTimeoutMs
	}
}

func knownKeys(v interface{}) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("json"); tag != "" {
			name := strings.Split(tag, ",")[0]
			if name != "-" {
				keys[name] = true
			}
		}
	}
	return keys
}
