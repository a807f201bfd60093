package timeline

import (
	"sort"

	correlate "github.com/okian/matchline/internal/domain/correlate"
	model "github.com/okian/matchline/internal/domain/model"
	normalize "github.com/okian/matchline/internal/domain/normalize"
	subs "github.com/okian/matchline/internal/domain/subs"
)

// Build runs the full pipeline over a snapshot and returns the ordered
// timeline. The result is deterministic: rebuilding from an unchanged
// snapshot yields a deeply equal entry list. Partial or empty snapshots
// produce a short (possibly empty) timeline, never an error.
func Build(snap model.Snapshot) []Entry {
	incidents := normalize.Expand(snap.Incidents)
	incidents = append(incidents, subs.Aggregate(snap.Substitutions, snap.Home, snap.Away)...)

	links := correlate.AssistLinks(incidents)
	groups := correlate.DoubleYellows(incidents)

	return assemble(incidents, links, groups, snap.Status)
}

// assemble partitions the correlated incidents into the two period
// blocks and emits them with separators in the order the renderer
// expects.
//
// The timeline reads most-recent-first, so blocks are emitted newest
// period first and each period's start marker comes after its incidents:
// read bottom-up the list is chronological. Emission order: match-ended
// separator, second-half-ended separator, second-half incidents (minute
// descending), second-half start, first-half-ended separator, first-half
// incidents, first-half start. Period separators only appear when their
// period has incidents.
func assemble(
	incidents []model.Incident,
	links map[int]model.Incident,
	groups map[int]correlate.CardGroup,
	status model.Status,
) []Entry {
	suppressed := correlate.SuppressedCards(groups)
	compound := make(map[model.Key]correlate.CardGroup, len(groups))
	for _, g := range groups {
		compound[g.SecondYellow.Key()] = g
	}

	var first, later []model.Incident
	for _, in := range incidents {
		if in.Kind == model.KindAssist {
			// Assists only decorate goals; they never render top-level.
			continue
		}
		if suppressed[in.Key()] {
			continue
		}
		if in.Period.Effective(in.Minute).SecondOrLater() {
			later = append(later, in)
		} else {
			first = append(first, in)
		}
	}
	sortByMinuteDesc(later)
	sortByMinuteDesc(first)

	var entries []Entry
	if status.MatchEnded() {
		entries = append(entries, separator(Separator{MatchEnd: true, Ended: true}))
	}
	if len(later) > 0 {
		if status.SecondHalfEnded() {
			entries = append(entries, separator(Separator{Period: model.PeriodSecond, Ended: true}))
		}
		entries = appendIncidents(entries, later, links, compound)
		entries = append(entries, separator(Separator{Period: model.PeriodSecond}))
	}
	if len(first) > 0 {
		if status.FirstHalfEnded() {
			entries = append(entries, separator(Separator{Period: model.PeriodFirst, Ended: true}))
		}
		entries = appendIncidents(entries, first, links, compound)
		entries = append(entries, separator(Separator{Period: model.PeriodFirst}))
	}
	return entries
}

// sortByMinuteDesc orders a period block most recent first. The sort is
// stable so same-minute incidents keep their input order.
func sortByMinuteDesc(incidents []model.Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Minute > incidents[j].Minute
	})
}

func appendIncidents(
	entries []Entry,
	incidents []model.Incident,
	links map[int]model.Incident,
	compound map[model.Key]correlate.CardGroup,
) []Entry {
	for _, in := range incidents {
		entries = append(entries, entryFor(in, links, compound))
	}
	return entries
}

// entryFor decorates one incident: goals get their linked assist, a
// second yellow gets the other halves of its compound group.
func entryFor(
	in model.Incident,
	links map[int]model.Incident,
	compound map[model.Key]correlate.CardGroup,
) Entry {
	inc := in
	e := Entry{Type: EntryIncident, Incident: &inc}

	if in.Kind == model.KindGoal {
		if assist, ok := links[in.ID]; ok {
			a := assist
			e.Assist = &a
		}
	}
	if g, ok := compound[in.Key()]; ok {
		fy, red := g.FirstYellow, g.Red
		e.FirstYellow = &fy
		e.Red = &red
	}
	return e
}

func separator(s Separator) Entry {
	sep := s
	return Entry{Type: EntrySeparator, Separator: &sep}
}
