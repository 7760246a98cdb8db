package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ayusman/mudra/internal/plugin"
)

type fakeSwitch struct{ enabled bool }

func (f *fakeSwitch) IsEnabled() bool         { return f.enabled }
func (f *fakeSwitch) SetEnabled(enabled bool) { f.enabled = enabled }

func TestStatusHandler(t *testing.T) {
	sw := &fakeSwitch{enabled: true}
	handler := NewStatusHandler(sw)

	rec := serve(handler, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"enabled\":true}\n" {
		t.Errorf("GET: got %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(handler, http.MethodPut, "/api/status", `{"enabled":false}`)
	if rec.Code != http.StatusOK || sw.enabled {
		t.Errorf("PUT: got %d, enabled=%t", rec.Code, sw.enabled)
	}

	if rec := serve(handler, http.MethodPut, "/api/status", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing field: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec := serve(handler, http.MethodPost, "/api/status", `{}`); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

type fakeLister []*plugin.Plugin

func (f fakeLister) List() []*plugin.Plugin { return f }

func TestPluginsHandler(t *testing.T) {
	handler := NewPluginsHandler(fakeLister{
		{Manifest: plugin.Manifest{Name: "command", Version: "1.0.0", Actions: []string{"run"}}},
		{Manifest: plugin.Manifest{Name: "journal", Version: "1.0.0"}},
	})

	rec := serve(handler, http.MethodGet, "/api/plugins", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listPluginsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Plugins) != 2 || response.Plugins[0].Name != "command" || response.Plugins[0].Actions[0] != "run" {
		t.Errorf("unexpected plugins %+v", response.Plugins)
	}
	if response.Plugins[1].Actions == nil {
		t.Error("expected an empty actions array, got null")
	}
}
