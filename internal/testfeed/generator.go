package testfeed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/matchline/pkg/logger"
)

// Roster and incident generation bounds.
const (
	playersPerTeam   = 11
	maxGoalsPerTeam  = 4
	maxYellows       = 5
	maxSubsPerTeam   = 3
	firstHalfMinutes = 45
	fullTimeMinutes  = 90
	assistChancePct  = 60
	penaltyChancePct = 10
	ownGoalChancePct = 5
	doubleYellowPct  = 25
)

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func chance(pct int) bool {
	return randomInt(PercentageMultiplier) < pct
}

func intp(v int) *int { return &v }

// generateSnapshots creates finished-match snapshots with unique match ids.
func generateSnapshots(ctx context.Context, config *Config, stats *Stats) ([]Snapshot, error) {
	logger.Get().Info(ctx, "generating match snapshots", logger.Int("numMatches", config.NumMatches))

	snapshots := make([]Snapshot, 0, config.NumMatches)
	for i := 0; i < config.NumMatches; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		snapshots = append(snapshots, generateMatch(i))
	}

	stats.SnapshotsGenerated = len(snapshots)
	logger.Get().Info(ctx, "generated snapshots successfully", logger.Int("count", len(snapshots)))

	return snapshots, nil
}

// generateMatch builds one plausible finished match: rosters, goals with
// assists, cards including the occasional double yellow, and paired
// substitution records.
func generateMatch(index int) Snapshot {
	matchID := "match-" + strconv.Itoa(index) + "-" + uuid.NewString()[:8]
	homeTeam := 1000 + index*2
	awayTeam := homeTeam + 1

	snap := Snapshot{
		SnapshotID: uuid.NewString(),
		MatchID:    matchID,
		Status:     "finished",
		Home:       generateRoster(homeTeam),
		Away:       generateRoster(awayTeam),
	}

	goalID := 0
	assistID := 0
	for _, teamID := range []int{homeTeam, awayTeam} {
		goals := randomInt(maxGoalsPerTeam + 1)
		for g := 0; g < goals; g++ {
			goalID++
			minute := 1 + randomInt(fullTimeMinutes)
			scorer := teamID*100 + randomInt(playersPerTeam)
			goal := Incident{
				Kind:      "goal",
				ID:        goalID,
				PlayerID:  intp(scorer),
				TeamID:    intp(teamID),
				Minute:    minute,
				IsPenalty: chance(penaltyChancePct),
			}
			if !goal.IsPenalty && chance(ownGoalChancePct) {
				goal.IsOwnGoal = true
			}
			snap.Incidents = append(snap.Incidents, goal)

			if !goal.IsPenalty && !goal.IsOwnGoal && chance(assistChancePct) {
				assistID++
				assister := teamID*100 + randomInt(playersPerTeam)
				if chance(50) {
					// Standalone assist incident referencing the goal.
					snap.Incidents = append(snap.Incidents, Incident{
						Kind:     "assist",
						ID:       assistID,
						PlayerID: intp(assister),
						TeamID:   intp(teamID),
						Minute:   minute,
						GoalID:   goalID,
					})
				} else {
					// Legacy embedded descriptor on the goal itself.
					last := len(snap.Incidents) - 1
					snap.Incidents[last].Assists = []Assist{
						{ID: assistID, PlayerID: intp(assister)},
					}
				}
			}
		}
	}

	snap.Incidents = append(snap.Incidents, generateCards(homeTeam, awayTeam)...)
	snap.Substitutions = generateSubstitutions(homeTeam, awayTeam)

	return snap
}

func generateRoster(teamID int) []Player {
	roster := make([]Player, 0, playersPerTeam)
	for p := 0; p < playersPerTeam; p++ {
		roster = append(roster, Player{
			ID:      teamID*100 + p,
			TeamID:  teamID,
			Number:  p + 1,
			OnField: true,
		})
	}
	return roster
}

func generateCards(homeTeam, awayTeam int) []Incident {
	var cards []Incident
	yellowID := 0
	redID := 0

	yellows := randomInt(maxYellows + 1)
	for y := 0; y < yellows; y++ {
		yellowID++
		teamID := homeTeam
		if chance(50) {
			teamID = awayTeam
		}
		player := teamID*100 + randomInt(playersPerTeam)
		minute := 1 + randomInt(fullTimeMinutes)
		cards = append(cards, Incident{
			Kind:     "yellow",
			ID:       yellowID,
			PlayerID: intp(player),
			TeamID:   intp(teamID),
			Minute:   minute,
		})

		// Occasionally escalate into a second yellow plus a red for the
		// same player.
		if chance(doubleYellowPct) && minute < fullTimeMinutes {
			yellowID++
			redID++
			second := minute + 1 + randomInt(fullTimeMinutes-minute)
			cards = append(cards,
				Incident{Kind: "yellow", ID: yellowID, PlayerID: intp(player), TeamID: intp(teamID), Minute: second},
				Incident{Kind: "red", ID: redID, PlayerID: intp(player), TeamID: intp(teamID), Minute: second},
			)
		}
	}

	return cards
}

func generateSubstitutions(homeTeam, awayTeam int) []Substitution {
	var subs []Substitution
	subID := 0

	for _, teamID := range []int{homeTeam, awayTeam} {
		count := randomInt(maxSubsPerTeam + 1)
		for s := 0; s < count; s++ {
			subID++
			minute := firstHalfMinutes + 1 + randomInt(fullTimeMinutes-firstHalfMinutes)
			out := teamID*100 + s
			in := teamID*100 + playersPerTeam + s
			subs = append(subs,
				Substitution{ID: subID, Kind: "EXIT", PlayerID: out, TeamID: intp(teamID), Minute: minute},
				Substitution{ID: subID, Kind: "ENTRY", PlayerID: in, TeamID: intp(teamID), Minute: minute},
			)
		}
	}

	return subs
}
