// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/matchline/internal/adapters/repository"
	model "github.com/okian/matchline/internal/domain/model"
	"github.com/okian/matchline/internal/domain/seen"
)

// Snapshot mirrors what handlers hand off for async processing.
// Using the model.Snapshot type for consistency.
type Snapshot = model.Snapshot

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	seen.Recorder

	// Enqueue pushes a snapshot for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, s Snapshot) bool

	// Read operations expose computed match data.
	Timeline(ctx context.Context, matchID string) (repository.Computed, error)
	Lineups(ctx context.Context, matchID string) (repository.Computed, error)
	Matches(ctx context.Context) []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	snapshotsHandler *SnapshotsHandler
	timelineHandler  *TimelineHandler
	lineupsHandler   *LineupsHandler
	matchesHandler   *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		snapshotsHandler: NewSnapshotsHandler(deps),
		timelineHandler:  NewTimelineHandler(deps),
		lineupsHandler:   NewLineupsHandler(deps),
		matchesHandler:   NewMatchesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshots", MetricsMiddleware(s.snapshotsHandler.HandlePostSnapshot, "snapshots"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/timeline/", MetricsMiddleware(s.timelineHandler.HandleGetTimeline, "timeline"))
	mux.HandleFunc("/lineups/", MetricsMiddleware(s.lineupsHandler.HandleGetLineups, "lineups"))
}

type ackResponse struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
	Duplicate  bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// matchIDFromPath extracts the match id segment after prefix, rejecting
// empty ids and nested paths.
func matchIDFromPath(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
