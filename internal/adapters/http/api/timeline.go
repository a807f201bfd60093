// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/matchline/internal/adapters/repository"
	model "github.com/okian/matchline/internal/domain/model"
	"github.com/okian/matchline/internal/domain/timeline"
)

// TimelineDependencies defines the interface for timeline reads.
type TimelineDependencies interface {
	Timeline(ctx context.Context, matchID string) (repository.Computed, error)
}

// timelineResponse mirrors the wire schema for GET /timeline/{match_id}.
type timelineResponse struct {
	MatchID    string         `json:"match_id"`
	SnapshotID string         `json:"snapshot_id"`
	BuiltAt    string         `json:"built_at"`
	Entries    []entryPayload `json:"entries"`
}

type entryPayload struct {
	Type string `json:"type"`

	// Separator fields.
	Period   string `json:"period,omitempty"`
	Ended    bool   `json:"ended,omitempty"`
	MatchEnd bool   `json:"match_end,omitempty"`

	// Incident fields.
	Incident    *incidentPayload `json:"incident,omitempty"`
	Assist      *incidentPayload `json:"assist,omitempty"`
	FirstYellow *incidentPayload `json:"first_yellow,omitempty"`
	Red         *incidentPayload `json:"red,omitempty"`
}

func incidentToPayload(in *model.Incident) *incidentPayload {
	if in == nil {
		return nil
	}
	p := &incidentPayload{
		Kind:          string(in.Kind),
		ID:            in.ID,
		PlayerID:      in.PlayerID,
		PlayerName:    in.PlayerName,
		TeamID:        in.TeamID,
		Minute:        in.Minute,
		Period:        in.Period.Effective(in.Minute).String(),
		IsPenalty:     in.IsPenalty,
		IsOwnGoal:     in.IsOwnGoal,
		GoalID:        in.GoalID,
		PlayerOutID:   in.PlayerOutID,
		PlayerOutName: in.PlayerOutName,
		PlayerInID:    in.PlayerInID,
		PlayerInName:  in.PlayerInName,
	}
	for _, a := range in.Assists {
		p.Assists = append(p.Assists, assistPayload{ID: a.ID, PlayerID: a.PlayerID, PlayerName: a.PlayerName})
	}
	return p
}

func entriesToPayload(entries []timeline.Entry) []entryPayload {
	payload := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		switch e.Type {
		case timeline.EntrySeparator:
			payload = append(payload, entryPayload{
				Type:     string(timeline.EntrySeparator),
				Period:   e.Separator.Period.String(),
				Ended:    e.Separator.Ended,
				MatchEnd: e.Separator.MatchEnd,
			})
		case timeline.EntryIncident:
			payload = append(payload, entryPayload{
				Type:        string(timeline.EntryIncident),
				Incident:    incidentToPayload(e.Incident),
				Assist:      incidentToPayload(e.Assist),
				FirstYellow: incidentToPayload(e.FirstYellow),
				Red:         incidentToPayload(e.Red),
			})
		}
	}
	return payload
}

// TimelineHandler handles timeline read requests.
type TimelineHandler struct {
	deps TimelineDependencies
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies) *TimelineHandler {
	return &TimelineHandler{deps: deps}
}

// HandleGetTimeline handles GET /timeline/{match_id} requests.
func (h *TimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matchID, ok := matchIDFromPath(r.URL.Path, "/timeline/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	computed, err := h.deps.Timeline(r.Context(), matchID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{
		MatchID:    computed.MatchID,
		SnapshotID: computed.SnapshotID,
		BuiltAt:    computed.BuiltAt.UTC().Format(time.RFC3339),
		Entries:    entriesToPayload(computed.Entries),
	})
}
