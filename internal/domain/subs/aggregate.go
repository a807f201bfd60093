// Package subs turns raw one-sided substitution records into paired
// substitution incidents and derives per-player on-field state.
package subs

import (
	model "github.com/okian/matchline/internal/domain/model"
)

// groupKey is the composite grouping key for raw substitution records.
// Records sharing minute, team and period describe one substitution.
type groupKey struct {
	minute  int
	teamID  int
	hasTeam bool
	period  model.Period
}

// group collects the two sides of a substitution. Only the first ENTRY
// and the first EXIT of a key are paired; a one-sided group still emits.
type group struct {
	entry *model.SubstitutionRecord
	exit  *model.SubstitutionRecord
}

// Aggregate folds raw ENTRY/EXIT records into substitution incidents,
// one per (minute, team, period) group, in first-seen key order.
//
// Team resolution: an explicit team id on the record wins; otherwise the
// player is looked up in the two rosters. Records whose team cannot be
// resolved are still emitted with a nil team, never dropped.
func Aggregate(records []model.SubstitutionRecord, home, away []model.Player) []model.Incident {
	groups := make(map[groupKey]*group)
	var order []groupKey

	for i := range records {
		rec := records[i]
		rec.TeamID = resolveTeam(rec, home, away)

		key := groupKey{
			minute: rec.Minute,
			period: rec.Period.Effective(rec.Minute),
		}
		if rec.TeamID != nil {
			key.teamID = *rec.TeamID
			key.hasTeam = true
		}

		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		switch rec.Kind {
		case model.SubEntry:
			if g.entry == nil {
				g.entry = &rec
			}
		case model.SubExit:
			if g.exit == nil {
				g.exit = &rec
			}
		}
	}

	incidents := make([]model.Incident, 0, len(order))
	for _, key := range order {
		incidents = append(incidents, incidentFor(key, groups[key]))
	}
	return incidents
}

// incidentFor emits the single substitution incident for a group. The
// minute comes from the ENTRY record when both sides exist.
func incidentFor(key groupKey, g *group) model.Incident {
	in := model.Incident{
		Kind:   model.KindSubstitution,
		Minute: key.minute,
		Period: key.period,
	}
	if key.hasTeam {
		team := key.teamID
		in.TeamID = &team
	}

	if g.entry != nil {
		in.ID = g.entry.ID
		in.Minute = g.entry.Minute
		player := g.entry.PlayerID
		in.PlayerID = &player
		in.PlayerName = g.entry.PlayerName
		entering := g.entry.PlayerID
		in.PlayerInID = &entering
		in.PlayerInName = g.entry.PlayerName
	}
	if g.exit != nil {
		if g.entry == nil {
			in.ID = g.exit.ID
			player := g.exit.PlayerID
			in.PlayerID = &player
			in.PlayerName = g.exit.PlayerName
		}
		leaving := g.exit.PlayerID
		in.PlayerOutID = &leaving
		in.PlayerOutName = g.exit.PlayerName
	}
	return in
}

// resolveTeam returns the record's team id, falling back to a roster
// lookup of the player. Nil when the player is on neither roster.
func resolveTeam(rec model.SubstitutionRecord, home, away []model.Player) *int {
	if rec.TeamID != nil {
		return rec.TeamID
	}
	for _, roster := range [][]model.Player{home, away} {
		for _, p := range roster {
			if p.ID == rec.PlayerID {
				team := p.TeamID
				return &team
			}
		}
	}
	return nil
}
