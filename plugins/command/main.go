// Package main provides a plugin that runs a configured command when a
// gesture matches. Match details are passed in MUDRA_* environment
// variables.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/ayusman/mudra/internal/plugin"
)

// Config is the per-binding configuration.
type Config struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func main() {
	resp := handle(os.Stdin, os.Environ())
	json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(in io.Reader, environ []string) plugin.Response {
	var req plugin.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return failure("failed to decode request: %v", err)
	}
	if req.Action != "run" {
		return failure("unknown action: %s", req.Action)
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return failure("invalid config: %v", err)
		}
	}
	if cfg.Command == "" {
		return failure("config.command is required")
	}

	var params plugin.MatchParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return failure("invalid params: %v", err)
		}
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Env = append(environ, matchEnv(req.Gesture, params)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return failure("command failed: %v: %s", err, output)
	}

	data, _ := json.Marshal(map[string]string{"output": string(output)})
	return plugin.Response{Success: true, Data: data}
}

func matchEnv(gestureName string, p plugin.MatchParams) []string {
	return []string{
		"MUDRA_GESTURE=" + gestureName,
		"MUDRA_GESTURE_ID=" + p.GestureID,
		"MUDRA_SCORE=" + strconv.Itoa(p.Score),
		"MUDRA_MOVES=" + strconv.Itoa(p.Moves),
		"MUDRA_PATH=" + p.Path,
	}
}

func failure(format string, args ...any) plugin.Response {
	return plugin.Response{Success: false, Error: fmt.Sprintf(format, args...)}
}
