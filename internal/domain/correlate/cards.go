package correlate

import (
	"sort"

	model "github.com/okian/matchline/internal/domain/model"
)

// CardGroup is the compound disciplinary event for one player: two
// yellow cards and the red they imply. The red half must never render
// as a standalone timeline entry; it belongs to the second yellow.
type CardGroup struct {
	FirstYellow  model.Incident
	SecondYellow model.Incident
	Red          model.Incident
}

// DoubleYellows detects players sent off by a second yellow card and
// returns one CardGroup per such player, keyed by player id.
//
// Only the canonical case is treated as compound: exactly two yellow
// incidents plus at least one red/double-yellow incident for the same
// player. Players with one yellow, or with three or more, render their
// cards independently. The red chosen is the earliest whose minute is at
// or after the second yellow's minute; when none qualifies the earliest
// red overall is used. That fallback may mask a red logged before its
// second yellow and is kept for parity with the source data.
func DoubleYellows(incidents []model.Incident) map[int]CardGroup {
	yellows := make(map[int][]model.Incident)
	reds := make(map[int][]model.Incident)

	for _, in := range incidents {
		if in.PlayerID == nil {
			continue
		}
		switch in.Kind {
		case model.KindYellow:
			yellows[*in.PlayerID] = append(yellows[*in.PlayerID], in)
		case model.KindRed, model.KindDoubleYellow:
			reds[*in.PlayerID] = append(reds[*in.PlayerID], in)
		}
	}

	groups := make(map[int]CardGroup)
	for player, ys := range yellows {
		if len(ys) != 2 {
			continue
		}
		rs := reds[player]
		if len(rs) == 0 {
			continue
		}

		sort.SliceStable(ys, func(i, j int) bool { return ys[i].Minute < ys[j].Minute })
		first, second := ys[0], ys[1]

		groups[player] = CardGroup{
			FirstYellow:  first,
			SecondYellow: second,
			Red:          redFor(rs, second.Minute),
		}
	}
	return groups
}

// redFor picks the red card paired with a second yellow shown at minute.
// Preference goes to the earliest red at or after the yellow; the
// earliest red overall is the fallback.
func redFor(reds []model.Incident, minute int) model.Incident {
	sorted := make([]model.Incident, len(reds))
	copy(sorted, reds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Minute < sorted[j].Minute })

	for _, r := range sorted {
		if r.Minute >= minute {
			return r
		}
	}
	return sorted[0]
}

// SuppressedCards returns the identity set of card incidents that must
// not render standalone: the red half of every detected group.
func SuppressedCards(groups map[int]CardGroup) map[model.Key]bool {
	suppressed := make(map[model.Key]bool, len(groups))
	for _, g := range groups {
		suppressed[g.Red.Key()] = true
	}
	return suppressed
}
