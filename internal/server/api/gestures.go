// Package api provides HTTP API handlers for the Mudra gesture engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// GestureHandler handles HTTP requests for gesture resources.
type GestureHandler struct {
	store    *store.Store
	defaults gesture.Config
}

// NewGestureHandler creates a new GestureHandler with the given store.
func NewGestureHandler(s *store.Store) *GestureHandler {
	return &GestureHandler{store: s, defaults: gesture.DefaultConfig(nil)}
}

// WithDefaults sets the thresholds given to gestures created without them.
func (h *GestureHandler) WithDefaults(cfg gesture.Config) *GestureHandler {
	h.defaults.MinMoves = cfg.MinMoves
	h.defaults.FudgeFactor = cfg.FudgeFactor
	return h
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/gestures or /api/gestures/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createGestureRequest struct {
	Name        string          `json:"name"`
	Pattern     gesture.Pattern `json:"pattern"`
	MinMoves    *int            `json:"min_moves"`
	FudgeFactor *float64        `json:"fudge_factor"`
}

type updateGestureRequest struct {
	Name        string          `json:"name"`
	Pattern     gesture.Pattern `json:"pattern"`
	MinMoves    *int            `json:"min_moves"`
	FudgeFactor *float64        `json:"fudge_factor"`
}

type gestureResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Pattern     string  `json:"pattern"`
	MinMoves    int     `json:"min_moves"`
	FudgeFactor float64 `json:"fudge_factor"`
	Samples     int     `json:"samples"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Gesture to a gestureResponse.
func toResponse(g *store.Gesture) gestureResponse {
	return gestureResponse{
		ID:          g.ID,
		Name:        g.Name,
		Pattern:     g.Pattern.String(),
		MinMoves:    g.MinMoves,
		FudgeFactor: g.FudgeFactor,
		Samples:     g.Samples,
		CreatedAt:   g.CreatedAt.Format(timeFormat),
		UpdatedAt:   g.UpdatedAt.Format(timeFormat),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// isConfigError reports whether err is a rejected recognizer configuration.
func isConfigError(err error) bool {
	return errors.Is(err, gesture.ErrEmptyPattern) ||
		errors.Is(err, gesture.ErrInvalidDirection) ||
		errors.Is(err, gesture.ErrNegativeMinMoves) ||
		errors.Is(err, gesture.ErrNegativeFudgeFactor)
}

// writeSaveError maps a failed gesture write to a response.
func writeSaveError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case isConfigError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Gesture name already in use")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Gesture not found")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// list handles GET /api/gestures and returns all gestures.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	gestures, err := h.store.Gestures().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gestures")
		return
	}

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(gestures)),
	}

	for _, g := range gestures {
		response.Gestures = append(response.Gestures, toResponse(g))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{id} and returns a single gesture.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(g))
}

// create handles POST /api/gestures and creates a new gesture.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Pattern) == 0 {
		writeError(w, http.StatusBadRequest, "Pattern is required")
		return
	}

	cfg := h.defaults
	cfg.Pattern = req.Pattern
	if req.MinMoves != nil {
		cfg.MinMoves = *req.MinMoves
	}
	if req.FudgeFactor != nil {
		cfg.FudgeFactor = *req.FudgeFactor
	}

	g := &store.Gesture{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Pattern:     cfg.Pattern,
		MinMoves:    cfg.MinMoves,
		FudgeFactor: cfg.FudgeFactor,
	}

	if err := h.store.Gestures().Create(g); err != nil {
		writeSaveError(w, err, "Failed to create gesture")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(g))
}

// update handles PUT /api/gestures/{id} and updates an existing gesture.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	var req updateGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		g.Name = req.Name
	}
	if len(req.Pattern) > 0 {
		g.Pattern = req.Pattern
	}
	if req.MinMoves != nil {
		g.MinMoves = *req.MinMoves
	}
	if req.FudgeFactor != nil {
		g.FudgeFactor = *req.FudgeFactor
	}

	if err := h.store.Gestures().Update(g); err != nil {
		writeSaveError(w, err, "Failed to update gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(g))
}

// delete handles DELETE /api/gestures/{id} and removes a gesture.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Gestures().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
