// Package normalize flattens loosely-structured raw incidents into the
// uniform shape the rest of the engine works on.
//
// Legacy goal records may carry an embedded array of assist descriptors
// instead of (or in addition to) standalone assist incidents. Expand
// synthesizes one assist incident per descriptor so that every assist,
// however it arrived, is representable as an assist-kind incident with
// GoalID set.
package normalize

import (
	model "github.com/okian/matchline/internal/domain/model"
)

// Expand returns a new incident list where every embedded assist
// descriptor has been synthesized into a standalone assist incident.
// Original incidents are kept unmodified; synthesized assists are
// appended at the end of the list. A goal with no descriptors yields
// nothing extra; N descriptors yield N incidents.
func Expand(incidents []model.Incident) []model.Incident {
	out := make([]model.Incident, 0, len(incidents))
	var synthesized []model.Incident

	for _, in := range incidents {
		switch in.Kind {
		case model.KindGoal:
			out = append(out, in)
			for _, d := range in.Assists {
				synthesized = append(synthesized, assistFromDetail(in, d))
			}
		case model.KindYellow, model.KindRed, model.KindDoubleYellow,
			model.KindAssist, model.KindSubstitution:
			out = append(out, in)
		default:
			// Unknown kinds pass through untouched; downstream stages
			// ignore what they do not recognize.
			out = append(out, in)
		}
	}

	return append(out, synthesized...)
}

// assistFromDetail builds a standalone assist incident from a descriptor
// embedded in a goal. The assist inherits the goal's minute, period and
// team, and back-references the goal through GoalID.
func assistFromDetail(goal model.Incident, d model.AssistDetail) model.Incident {
	return model.Incident{
		Kind:       model.KindAssist,
		ID:         d.ID,
		PlayerID:   d.PlayerID,
		PlayerName: d.PlayerName,
		TeamID:     goal.TeamID,
		Minute:     goal.Minute,
		Period:     goal.Period,
		GoalID:     goal.ID,
	}
}
