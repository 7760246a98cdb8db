// Package server provides the HTTP server for the Mudra gesture engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store

	// Defaults are the thresholds given to gestures created without them.
	// The zero value uses the built-in defaults.
	Defaults gesture.Config

	// App enables recognition, training, live sessions and plugin
	// routes. Its store is used when Store is nil.
	App *app.App
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config   Config
	mux      *http.ServeMux
	start    time.Time
	sessions *SessionHandler
	matches  *MatchesHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Store == nil && config.App != nil {
		config.Store = config.App.Store()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	var recognition http.Handler
	if s.config.App != nil {
		recognition = api.NewRecognitionHandler(s.config.App)
		s.mux.Handle("/api/score", recognition)
		s.mux.Handle("/api/recognize", recognition)
		s.mux.Handle("/api/status", api.NewStatusHandler(s.config.App))
		s.mux.Handle("/api/plugins", api.NewPluginsHandler(s.config.App.PluginManager()))
		s.sessions = NewSessionHandler(s.config.App)
		s.mux.Handle("/api/session", s.sessions)

		s.matches = NewMatchesHandler()
		s.config.App.OnMatch(s.matches.Broadcast)
		s.mux.Handle("/api/matches", s.matches)
	}

	if s.config.Store != nil {
		gestureHandler := api.NewGestureHandler(s.config.Store)
		if d := s.config.Defaults; d.MinMoves != 0 || d.FudgeFactor != 0 {
			gestureHandler.WithDefaults(s.config.Defaults)
		}
		samplesHandler := api.NewSamplesHandler(s.config.Store)

		var actionHandler *api.ActionHandler
		if s.config.App != nil {
			actionHandler = api.NewActionHandler(s.config.Store, s.config.App.PluginManager())
		} else {
			actionHandler = api.NewActionHandler(s.config.Store, nil)
		}

		// Route /api/gestures/{id}/{sub} to the handler that owns {sub}
		gestureRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/samples"):
				samplesHandler.ServeHTTP(w, r)
			case recognition != nil && (strings.HasSuffix(r.URL.Path, "/train") || strings.HasSuffix(r.URL.Path, "/recognize")):
				recognition.ServeHTTP(w, r)
			default:
				gestureHandler.ServeHTTP(w, r)
			}
		})

		s.mux.Handle("/api/gestures", gestureRouter)
		s.mux.Handle("/api/gestures/", gestureRouter)
		s.mux.Handle("/api/actions", actionHandler)
		s.mux.Handle("/api/actions/", actionHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.App != nil {
		response["enabled"] = s.config.App.IsEnabled()
		response["plugins"] = len(s.config.App.PluginManager().List())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not closed by Shutdown
	if s.sessions != nil {
		s.sessions.CloseAll()
		s.matches.CloseAll()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
