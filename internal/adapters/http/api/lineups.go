// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/matchline/internal/adapters/repository"
	model "github.com/okian/matchline/internal/domain/model"
)

// LineupDependencies defines the interface for lineup reads.
type LineupDependencies interface {
	Lineups(ctx context.Context, matchID string) (repository.Computed, error)
}

// lineupResponse mirrors the wire schema for GET /lineups/{match_id}.
type lineupResponse struct {
	MatchID    string          `json:"match_id"`
	SnapshotID string          `json:"snapshot_id"`
	BuiltAt    string          `json:"built_at"`
	Home       []playerPayload `json:"home"`
	Away       []playerPayload `json:"away"`
}

func playersToPayload(players []model.Player) []playerPayload {
	payload := make([]playerPayload, 0, len(players))
	for _, p := range players {
		payload = append(payload, playerPayload{
			ID:        p.ID,
			TeamID:    p.TeamID,
			Name:      p.Name,
			Number:    p.Number,
			OnField:   p.OnField,
			MinuteIn:  p.MinuteIn,
			MinuteOut: p.MinuteOut,
		})
	}
	return payload
}

// LineupsHandler handles lineup read requests.
type LineupsHandler struct {
	deps LineupDependencies
}

// NewLineupsHandler creates a new lineups handler.
func NewLineupsHandler(deps LineupDependencies) *LineupsHandler {
	return &LineupsHandler{deps: deps}
}

// HandleGetLineups handles GET /lineups/{match_id} requests.
func (h *LineupsHandler) HandleGetLineups(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_lineups"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matchID, ok := matchIDFromPath(r.URL.Path, "/lineups/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	computed, err := h.deps.Lineups(r.Context(), matchID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lineupResponse{
		MatchID:    computed.MatchID,
		SnapshotID: computed.SnapshotID,
		BuiltAt:    computed.BuiltAt.UTC().Format(time.RFC3339),
		Home:       playersToPayload(computed.Home),
		Away:       playersToPayload(computed.Away),
	})
}
