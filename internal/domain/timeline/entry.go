// Package timeline assembles the ordered, render-ready match timeline
// from a full snapshot of raw incidents.
package timeline

import (
	model "github.com/okian/matchline/internal/domain/model"
)

// EntryType discriminates timeline entries.
type EntryType string

// Timeline entry types.
const (
	EntrySeparator EntryType = "separator"
	EntryIncident  EntryType = "incident"
)

// Separator is a non-incident marker denoting a period boundary or the
// end of the match.
type Separator struct {
	Period   model.Period
	Ended    bool
	MatchEnd bool
}

// Entry is one unit of the rendered timeline: either a separator or a
// correlated incident. Incident entries may carry decorations: the
// assist credited to a goal, and for a second yellow the first yellow
// and the suppressed red of its compound group.
type Entry struct {
	Type      EntryType
	Separator *Separator

	Incident    *model.Incident
	Assist      *model.Incident
	FirstYellow *model.Incident
	Red         *model.Incident
}
