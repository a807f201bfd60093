// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// MatchDependencies defines the interface for match listing.
type MatchDependencies interface {
	Matches(ctx context.Context) []string
}

// matchesResponse mirrors the wire schema for GET /matches.
type matchesResponse struct {
	Matches []string `json:"matches"`
	Count   int      `json:"count"`
}

// MatchesHandler handles match listing requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /matches requests.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matches := h.deps.Matches(r.Context())
	if matches == nil {
		matches = []string{}
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches, Count: len(matches)})
}
