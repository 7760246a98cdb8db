package main

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestHandle_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	req := `{"action":"run","gesture":"circle","config":{"command":"sh","args":["-c","echo $MUDRA_GESTURE $MUDRA_SCORE $MUDRA_PATH"]},"params":{"gesture_id":"g1","score":2,"moves":9,"path":"012345670"}}`
	resp := handle(strings.NewReader(req), nil)

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
	if data["output"] != "circle 2 012345670\n" {
		t.Errorf("unexpected output %q", data["output"])
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     string
		wantErr string
	}{
		{"bad json", `{`, "failed to decode request"},
		{"unknown action", `{"action":"explode"}`, "unknown action"},
		{"no command", `{"action":"run","config":{}}`, "config.command is required"},
		{"bad config", `{"action":"run","config":[1]}`, "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handle(strings.NewReader(tt.req), nil)
			if resp.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantErr)
			}
		})
	}
}
