// Package main provides a plugin that appends every match it receives to a
// JSON lines file.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/plugin"
)

// Config is the per-binding configuration.
type Config struct {
	Path string `json:"path"`
}

// Entry is one line of the journal.
type Entry struct {
	Gesture  string             `json:"gesture"`
	Match    plugin.MatchParams `json:"match"`
	Recorded time.Time          `json:"recorded"`
}

func main() {
	resp := handle(os.Stdin, defaultPath(), time.Now)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "journal.jsonl"
	}
	return filepath.Join(home, ".mudra", "journal.jsonl")
}

func handle(in io.Reader, fallback string, now func() time.Time) plugin.Response {
	var req plugin.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return failure("failed to decode request: %v", err)
	}

	cfg := Config{Path: fallback}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return failure("invalid config: %v", err)
		}
		if cfg.Path == "" {
			cfg.Path = fallback
		}
	}

	switch req.Action {
	case "append":
		var params plugin.MatchParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return failure("invalid params: %v", err)
			}
		}
		if err := appendEntry(cfg.Path, Entry{Gesture: req.Gesture, Match: params, Recorded: now()}); err != nil {
			return failure("append failed: %v", err)
		}
		return plugin.Response{Success: true}
	case "count":
		n, err := countEntries(cfg.Path)
		if err != nil {
			return failure("count failed: %v", err)
		}
		data, _ := json.Marshal(map[string]int{"count": n})
		return plugin.Response{Success: true, Data: data}
	default:
		return failure("unknown action: %s", req.Action)
	}
}

func appendEntry(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(e)
}

func countEntries(path string) (int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			n++
		}
	}
	return n, scanner.Err()
}

func failure(format string, args ...any) plugin.Response {
	return plugin.Response{Success: false, Error: fmt.Sprintf(format, args...)}
}
