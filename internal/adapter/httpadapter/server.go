package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
	"github.com/hluleko/smart-travel-planner/internal/routes"
)

// WarningGenerator simulates allergy warnings for a location.
type WarningGenerator interface {
	Generate(location string) *domain.LocationWarningReport
}

// AllergySource looks up the allergies on a user's profile.
type AllergySource interface {
	UserAllergies(ctx context.Context, token string, userID domain.ID) ([]domain.UserAllergy, error)
}

// DestinationLookup resolves a saved destination by id.
type DestinationLookup interface {
	GetDestinationByID(ctx context.Context, token string, destID domain.ID) (domain.Destination, error)
}

// ActivityRecorder receives page-view activity.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity domain.Activity) error
}

// ViewResolver maps a request path to a client-side view.
type ViewResolver interface {
	Resolve(path string) (routes.View, bool)
}

// Deps are the collaborators the server routes requests to. Allergies,
// Destinations and Activity are optional.
type Deps struct {
	Files     fs.FS
	BasePath  string
	Views     ViewResolver
	Generator WarningGenerator
	Allergies AllergySource
	Activity  ActivityRecorder
	Metrics   *observability.Metrics
	Clock     clockwork.Clock

	Destinations DestinationLookup
}

// Server serves the built single-page app, the allergy warnings API, and
// health, readiness and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server listening on addr.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.BasePath == "" {
		deps.BasePath = "/"
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/allergy-warnings", s.handleWarnings)
	mux.HandleFunc("GET /", s.handleSPA)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "base_path", s.deps.BasePath)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the built index page is present.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if _, err := fs.Stat(s.deps.Files, indexFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.New("index.html not found in dist directory")
		}
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
