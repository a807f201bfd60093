// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	model "github.com/okian/matchline/internal/domain/model"
	"github.com/okian/matchline/internal/domain/seen"
	"github.com/okian/matchline/pkg/metrics"
)

// SnapshotDependencies defines the interface for snapshot intake.
type SnapshotDependencies interface {
	seen.Recorder
	Enqueue(ctx context.Context, s Snapshot) bool
}

// snapshotRequest mirrors the wire schema for POST /snapshots.
type snapshotRequest struct {
	SnapshotID    string                `json:"snapshot_id"`
	MatchID       string                `json:"match_id"`
	Status        string                `json:"status"`
	Incidents     []incidentPayload     `json:"incidents"`
	Substitutions []substitutionPayload `json:"substitutions"`
	Home          []playerPayload       `json:"home"`
	Away          []playerPayload       `json:"away"`
}

type incidentPayload struct {
	Kind          string          `json:"kind"`
	ID            int             `json:"id"`
	PlayerID      *int            `json:"player_id,omitempty"`
	PlayerName    string          `json:"player_name,omitempty"`
	TeamID        *int            `json:"team_id,omitempty"`
	Minute        int             `json:"minute"`
	Period        string          `json:"period,omitempty"`
	IsPenalty     bool            `json:"penalty,omitempty"`
	IsOwnGoal     bool            `json:"own_goal,omitempty"`
	Assists       []assistPayload `json:"assists,omitempty"`
	GoalID        int             `json:"goal_id,omitempty"`
	PlayerOutID   *int            `json:"player_out_id,omitempty"`
	PlayerOutName string          `json:"player_out_name,omitempty"`
	PlayerInID    *int            `json:"player_in_id,omitempty"`
	PlayerInName  string          `json:"player_in_name,omitempty"`
}

type assistPayload struct {
	ID         int    `json:"id"`
	PlayerID   *int   `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
}

type substitutionPayload struct {
	ID         int    `json:"id,omitempty"`
	Kind       string `json:"kind"`
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	TeamID     *int   `json:"team_id,omitempty"`
	Minute     int    `json:"minute"`
	Period     string `json:"period,omitempty"`
}

type playerPayload struct {
	ID        int    `json:"id"`
	TeamID    int    `json:"team_id"`
	Name      string `json:"name,omitempty"`
	Number    int    `json:"number,omitempty"`
	OnField   bool   `json:"on_field"`
	MinuteIn  *int   `json:"minute_in,omitempty"`
	MinuteOut *int   `json:"minute_out,omitempty"`
}

func (r snapshotRequest) validate() error {
	if strings.TrimSpace(r.MatchID) == "" {
		return errors.New("missing match_id")
	}
	if !model.Status(r.Status).Known() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	for i, inc := range r.Incidents {
		if inc.Kind == "" {
			return fmt.Errorf("incident %d: missing kind", i)
		}
		if inc.Minute < 0 {
			return fmt.Errorf("incident %d: negative minute", i)
		}
	}
	for i, sub := range r.Substitutions {
		if sub.Kind != string(model.SubEntry) && sub.Kind != string(model.SubExit) {
			return fmt.Errorf("substitution %d: kind must be %s or %s", i, model.SubEntry, model.SubExit)
		}
		if sub.Minute < 0 {
			return fmt.Errorf("substitution %d: negative minute", i)
		}
	}
	return nil
}

func (r snapshotRequest) toModel() model.Snapshot {
	snap := model.Snapshot{
		SnapshotID: r.SnapshotID,
		MatchID:    r.MatchID,
		Status:     model.Status(r.Status),
	}
	for _, inc := range r.Incidents {
		m := model.Incident{
			Kind:          model.Kind(inc.Kind),
			ID:            inc.ID,
			PlayerID:      inc.PlayerID,
			PlayerName:    inc.PlayerName,
			TeamID:        inc.TeamID,
			Minute:        inc.Minute,
			Period:        model.ParsePeriod(inc.Period),
			IsPenalty:     inc.IsPenalty,
			IsOwnGoal:     inc.IsOwnGoal,
			GoalID:        inc.GoalID,
			PlayerOutID:   inc.PlayerOutID,
			PlayerOutName: inc.PlayerOutName,
			PlayerInID:    inc.PlayerInID,
			PlayerInName:  inc.PlayerInName,
		}
		for _, a := range inc.Assists {
			m.Assists = append(m.Assists, model.AssistDetail{
				ID:         a.ID,
				PlayerID:   a.PlayerID,
				PlayerName: a.PlayerName,
			})
		}
		snap.Incidents = append(snap.Incidents, m)
	}
	for _, sub := range r.Substitutions {
		snap.Substitutions = append(snap.Substitutions, model.SubstitutionRecord{
			ID:         sub.ID,
			Kind:       model.SubKind(sub.Kind),
			PlayerID:   sub.PlayerID,
			PlayerName: sub.PlayerName,
			TeamID:     sub.TeamID,
			Minute:     sub.Minute,
			Period:     model.ParsePeriod(sub.Period),
		})
	}
	snap.Home = playersFromPayload(r.Home)
	snap.Away = playersFromPayload(r.Away)
	return snap
}

func playersFromPayload(payload []playerPayload) []model.Player {
	var players []model.Player
	for _, p := range payload {
		players = append(players, model.Player{
			ID:        p.ID,
			TeamID:    p.TeamID,
			Name:      p.Name,
			Number:    p.Number,
			OnField:   p.OnField,
			MinuteIn:  p.MinuteIn,
			MinuteOut: p.MinuteOut,
		})
	}
	return players
}

// SnapshotsHandler handles snapshot intake requests.
type SnapshotsHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotDependencies) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps}
}

// HandlePostSnapshot handles POST /snapshots requests.
func (h *SnapshotsHandler) HandlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_snapshot"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Providers that do not version their feeds omit the snapshot id.
	if strings.TrimSpace(req.SnapshotID) == "" {
		req.SnapshotID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SnapshotID) {
		metrics.RecordSnapshotDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SnapshotID: req.SnapshotID, Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toModel()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SnapshotID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SnapshotID: req.SnapshotID, Duplicate: false})
}
