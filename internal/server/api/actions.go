package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// PluginResolver finds the plugin that serves an action.
type PluginResolver interface {
	Resolve(name, action string) (*plugin.Plugin, error)
}

// ActionHandler serves the bindings between gestures and plugin actions.
type ActionHandler struct {
	store   *store.Store
	plugins PluginResolver
}

// NewActionHandler creates a new ActionHandler with the given store. If
// plugins is not nil, bindings must name a discovered plugin and one of
// its declared actions.
func NewActionHandler(s *store.Store, plugins PluginResolver) *ActionHandler {
	return &ActionHandler{store: s, plugins: plugins}
}

// ServeHTTP routes /api/actions and /api/actions/{id}.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/actions"), "/")

	switch {
	case id == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case id == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case id != "" && r.Method == http.MethodGet:
		if a, ok := h.load(w, id); ok {
			writeJSON(w, http.StatusOK, h.toResponse(a))
		}
	case id != "" && r.Method == http.MethodPut:
		h.update(w, r, id)
	case id != "" && r.Method == http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// actionRequest is the body of both POST and PUT. On PUT, empty fields keep
// their stored value.
type actionRequest struct {
	GestureID  string          `json:"gesture_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type actionResponse struct {
	ID         string          `json:"id"`
	GestureID  string          `json:"gesture_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	Available  *bool           `json:"available,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

// toResponse reports the binding and, when plugins are known, whether its
// plugin can currently run it.
func (h *ActionHandler) toResponse(a *store.Action) actionResponse {
	config := a.Config
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}
	resp := actionResponse{
		ID:         a.ID,
		GestureID:  a.GestureID,
		PluginName: a.PluginName,
		ActionName: a.ActionName,
		Config:     config,
		Enabled:    a.Enabled,
		CreatedAt:  a.CreatedAt.Format(timeFormat),
	}
	if h.plugins != nil {
		_, err := h.plugins.Resolve(a.PluginName, a.ActionName)
		available := err == nil
		resp.Available = &available
	}
	return resp
}

// load fetches an action, writing the error response when it fails.
func (h *ActionHandler) load(w http.ResponseWriter, id string) (*store.Action, bool) {
	a, err := h.store.Actions().GetByID(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Action not found")
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return nil, false
	}
	return a, true
}

// checkGesture rejects bindings to gestures that do not exist or already
// have an action.
func (h *ActionHandler) checkGesture(w http.ResponseWriter, gestureID string) bool {
	if _, err := h.store.Gestures().GetByID(gestureID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Gesture not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to verify gesture")
		}
		return false
	}

	existing, err := h.store.Actions().GetByGestureID(gestureID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing action")
		return false
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Action already bound to this gesture")
		return false
	}
	return true
}

// checkPlugin rejects bindings to plugins that are not installed.
func (h *ActionHandler) checkPlugin(w http.ResponseWriter, name, action string) bool {
	if h.plugins == nil {
		return true
	}
	if _, err := h.plugins.Resolve(name, action); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// checkConfig requires config, when given, to be a JSON object.
func checkConfig(w http.ResponseWriter, config json.RawMessage) bool {
	if len(config) == 0 || bytes.HasPrefix(bytes.TrimSpace(config), []byte("{")) {
		return true
	}
	writeError(w, http.StatusBadRequest, "config must be a JSON object")
	return false
}

// list handles GET /api/actions, optionally filtered by ?gesture_id=.
func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	actions, err := h.store.Actions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}

	gestureID := r.URL.Query().Get("gesture_id")
	response := listActionsResponse{Actions: make([]actionResponse, 0, len(actions))}
	for _, a := range actions {
		if gestureID != "" && a.GestureID != gestureID {
			continue
		}
		response.Actions = append(response.Actions, h.toResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/actions.
func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	for _, f := range []struct{ value, name string }{
		{req.GestureID, "gesture_id"},
		{req.PluginName, "plugin_name"},
		{req.ActionName, "action_name"},
	} {
		if f.value == "" {
			writeError(w, http.StatusBadRequest, f.name+" is required")
			return
		}
	}

	if !checkConfig(w, req.Config) ||
		!h.checkPlugin(w, req.PluginName, req.ActionName) ||
		!h.checkGesture(w, req.GestureID) {
		return
	}

	action := &store.Action{
		ID:         uuid.New().String(),
		GestureID:  req.GestureID,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    req.Enabled == nil || *req.Enabled,
	}

	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(action))
}

// update handles PUT /api/actions/{id}. Moving a binding to another gesture
// is subject to the same checks as creating one.
func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	action, ok := h.load(w, id)
	if !ok {
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !checkConfig(w, req.Config) {
		return
	}

	if req.GestureID != "" && req.GestureID != action.GestureID {
		if !h.checkGesture(w, req.GestureID) {
			return
		}
		action.GestureID = req.GestureID
	}
	if req.PluginName != "" || req.ActionName != "" {
		if req.PluginName != "" {
			action.PluginName = req.PluginName
		}
		if req.ActionName != "" {
			action.ActionName = req.ActionName
		}
		if !h.checkPlugin(w, action.PluginName, action.ActionName) {
			return
		}
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(action))
}

// delete handles DELETE /api/actions/{id}.
func (h *ActionHandler) delete(w http.ResponseWriter, id string) {
	err := h.store.Actions().Delete(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Action not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
