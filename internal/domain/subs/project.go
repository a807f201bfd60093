package subs

import (
	model "github.com/okian/matchline/internal/domain/model"
)

// Project derives every player's effective entry minute, exit minute and
// on-field flag from the raw substitution records and returns both
// rosters with those fields overwritten. Roster order and all other
// player fields are preserved; the inputs are never mutated.
//
// Per player: MinuteIn is the earliest recorded ENTRY (else the existing
// roster value), MinuteOut the latest recorded EXIT (else the existing
// value). OnField is true iff an entry minute is known and no exit
// minute is; when neither is known the player's pre-existing flag is
// kept, so starters without recorded substitutions keep their status.
func Project(records []model.SubstitutionRecord, home, away []model.Player) ([]model.Player, []model.Player) {
	return projectRoster(records, home), projectRoster(records, away)
}

func projectRoster(records []model.SubstitutionRecord, roster []model.Player) []model.Player {
	if roster == nil {
		return nil
	}
	out := make([]model.Player, len(roster))
	for i, p := range roster {
		out[i] = projectPlayer(records, p)
	}
	return out
}

func projectPlayer(records []model.SubstitutionRecord, p model.Player) model.Player {
	var earliestIn, latestOut *int
	for _, rec := range records {
		if rec.PlayerID != p.ID {
			continue
		}
		minute := rec.Minute
		switch rec.Kind {
		case model.SubEntry:
			if earliestIn == nil || minute < *earliestIn {
				earliestIn = &minute
			}
		case model.SubExit:
			if latestOut == nil || minute > *latestOut {
				latestOut = &minute
			}
		}
	}

	if earliestIn != nil {
		p.MinuteIn = earliestIn
	}
	if latestOut != nil {
		p.MinuteOut = latestOut
	}

	switch {
	case p.MinuteIn != nil && p.MinuteOut == nil:
		p.OnField = true
	case p.MinuteIn == nil && p.MinuteOut == nil:
		// No substitution history at all: keep the supplied flag.
	default:
		p.OnField = false
	}
	return p
}
