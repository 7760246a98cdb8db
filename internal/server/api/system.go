package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/plugin"
)

// Switch turns action execution on and off.
type Switch interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// PluginLister lists discovered plugins.
type PluginLister interface {
	List() []*plugin.Plugin
}

// StatusHandler handles GET and PUT /api/status.
type StatusHandler struct {
	sw Switch
}

// NewStatusHandler creates a StatusHandler for sw.
func NewStatusHandler(sw Switch) *StatusHandler {
	return &StatusHandler{sw: sw}
}

type statusRequest struct {
	Enabled *bool `json:"enabled"`
}

type statusResponse struct {
	Enabled bool `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.sw.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Enabled: h.sw.IsEnabled()})
}

// PluginsHandler handles GET /api/plugins.
type PluginsHandler struct {
	plugins PluginLister
}

// NewPluginsHandler creates a PluginsHandler.
func NewPluginsHandler(plugins PluginLister) *PluginsHandler {
	return &PluginsHandler{plugins: plugins}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

// ServeHTTP implements the http.Handler interface.
func (h *PluginsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plugins := h.plugins.List()
	response := listPluginsResponse{Plugins: make([]pluginResponse, 0, len(plugins))}
	for _, p := range plugins {
		actions := p.Manifest.Actions
		if actions == nil {
			actions = []string{}
		}
		response.Plugins = append(response.Plugins, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Actions:     actions,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
