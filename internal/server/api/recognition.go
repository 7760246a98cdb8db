package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

// Engine recognizes and trains stored gestures.
type Engine interface {
	Recognize(gestureID string, points []gesture.Point) (gesture.Result, error)
	Train(gestureID string) (*store.Gesture, *gesture.TrainResult, error)
}

// RecognitionHandler serves dry-run recognition and training:
//
//	POST /api/gestures/{id}/recognize
//	POST /api/gestures/{id}/train
//	POST /api/recognize
//	POST /api/score
type RecognitionHandler struct {
	engine Engine
}

// NewRecognitionHandler creates a RecognitionHandler backed by engine.
func NewRecognitionHandler(engine Engine) *RecognitionHandler {
	return &RecognitionHandler{engine: engine}
}

// ServeHTTP implements the http.Handler interface.
func (h *RecognitionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case r.URL.Path == "/api/score":
		h.score(w, r)
	case r.URL.Path == "/api/recognize":
		h.recognizeAdHoc(w, r)
	case strings.HasSuffix(r.URL.Path, "/recognize"):
		id, ok := subresource(r.URL.Path, "recognize")
		if !ok {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.recognize(w, r, id)
	case strings.HasSuffix(r.URL.Path, "/train"):
		id, ok := subresource(r.URL.Path, "train")
		if !ok {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.train(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type recognizeRequest struct {
	Points []gesture.Point `json:"points"`
}

type adHocRecognizeRequest struct {
	Pattern     gesture.Pattern `json:"pattern"`
	MinMoves    *int            `json:"min_moves"`
	FudgeFactor *float64        `json:"fudge_factor"`
	Points      []gesture.Point `json:"points"`
}

type resultResponse struct {
	Matched bool   `json:"matched"`
	Score   int    `json:"score"`
	Moves   int    `json:"moves"`
	Path    string `json:"path"`
}

type scoreRequest struct {
	Observed gesture.Pattern `json:"observed"`
	Pattern  gesture.Pattern `json:"pattern"`
}

type scoreResponse struct {
	Score int `json:"score"`
}

type trainResponse struct {
	Gesture        gestureResponse `json:"gesture"`
	Pattern        string          `json:"pattern"`
	SuggestedFudge float64         `json:"suggested_fudge"`
	Paths          []string        `json:"paths"`
}

func toResultResponse(res gesture.Result) resultResponse {
	return resultResponse{
		Matched: res.Matched,
		Score:   res.Score,
		Moves:   res.Moves,
		Path:    res.Path.String(),
	}
}

// recognize handles POST /api/gestures/{id}/recognize.
func (h *RecognitionHandler) recognize(w http.ResponseWriter, r *http.Request, id string) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.engine.Recognize(id, req.Points)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to recognize gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(res))
}

// recognizeAdHoc handles POST /api/recognize against a pattern that is
// not stored.
func (h *RecognitionHandler) recognizeAdHoc(w http.ResponseWriter, r *http.Request) {
	var req adHocRecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cfg := gesture.DefaultConfig(req.Pattern)
	if req.MinMoves != nil {
		cfg.MinMoves = *req.MinMoves
	}
	if req.FudgeFactor != nil {
		cfg.FudgeFactor = *req.FudgeFactor
	}

	rec, err := gesture.NewRecognizer(cfg, gesture.Callback{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(input.Replay(rec, req.Points)))
}

// score handles POST /api/score.
func (h *RecognitionHandler) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := req.Observed.Validate(); err != nil && !errors.Is(err, gesture.ErrEmptyPattern) {
		writeError(w, http.StatusBadRequest, "observed: "+err.Error())
		return
	}
	if err := req.Pattern.Validate(); err != nil && !errors.Is(err, gesture.ErrEmptyPattern) {
		writeError(w, http.StatusBadRequest, "pattern: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse{Score: gesture.Score(req.Observed, req.Pattern)})
}

// train handles POST /api/gestures/{id}/train.
func (h *RecognitionHandler) train(w http.ResponseWriter, r *http.Request, id string) {
	g, result, err := h.engine.Train(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	paths := make([]string, 0, len(result.Paths))
	for _, p := range result.Paths {
		paths = append(paths, p.String())
	}

	writeJSON(w, http.StatusOK, trainResponse{
		Gesture:        toResponse(g),
		Pattern:        result.Pattern.String(),
		SuggestedFudge: result.SuggestedFudge,
		Paths:          paths,
	})
}
