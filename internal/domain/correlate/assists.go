// Package correlate links related incidents that arrive as separate
// records: assists to their goals, and second yellows to the red card
// they imply.
package correlate

import (
	model "github.com/okian/matchline/internal/domain/model"
)

// AssistLinks builds a map from goal id to the assist incident credited
// to that goal. Only assists that reference a goal explicitly through
// GoalID participate. When two assists reference the same goal the later
// one in the input overwrites the earlier (last-wins); callers should
// treat that as a data-quality concern, not an error. The incident list
// itself is never filtered.
func AssistLinks(incidents []model.Incident) map[int]model.Incident {
	links := make(map[int]model.Incident)
	for _, in := range incidents {
		if in.Kind != model.KindAssist {
			continue
		}
		if in.GoalID == 0 {
			continue
		}
		links[in.GoalID] = in
	}
	return links
}
