package normalize_test

import (
	"testing"

	model "github.com/okian/matchline/internal/domain/model"
	normalize "github.com/okian/matchline/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

func TestExpand(t *testing.T) {
	Convey("Given a raw incident list", t, func() {
		Convey("When a goal carries embedded assist descriptors", func() {
			goal := model.Incident{
				Kind:     model.KindGoal,
				ID:       1,
				PlayerID: intp(10),
				TeamID:   intp(7),
				Minute:   23,
				Period:   model.PeriodFirst,
				Assists: []model.AssistDetail{
					{ID: 100, PlayerID: intp(11), PlayerName: "Vidal"},
				},
			}
			out := normalize.Expand([]model.Incident{goal})

			Convey("Then a standalone assist is appended and the goal is kept", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Kind, ShouldEqual, model.KindGoal)
				So(out[0].ID, ShouldEqual, 1)
				So(len(out[0].Assists), ShouldEqual, 1)

				assist := out[1]
				So(assist.Kind, ShouldEqual, model.KindAssist)
				So(assist.ID, ShouldEqual, 100)
				So(assist.GoalID, ShouldEqual, 1)
				So(*assist.PlayerID, ShouldEqual, 11)
				So(assist.PlayerName, ShouldEqual, "Vidal")
				So(assist.Minute, ShouldEqual, 23)
				So(assist.Period, ShouldEqual, model.PeriodFirst)
				So(*assist.TeamID, ShouldEqual, 7)
			})
		})

		Convey("When a goal carries multiple embedded assists", func() {
			goal := model.Incident{
				Kind:   model.KindGoal,
				ID:     2,
				Minute: 70,
				Assists: []model.AssistDetail{
					{ID: 200, PlayerID: intp(4)},
					{ID: 201, PlayerID: intp(5)},
					{ID: 202, PlayerID: intp(6)},
				},
			}
			out := normalize.Expand([]model.Incident{goal})

			Convey("Then every descriptor yields one incident, no truncation", func() {
				So(out, ShouldHaveLength, 4)
				So(out[1].ID, ShouldEqual, 200)
				So(out[2].ID, ShouldEqual, 201)
				So(out[3].ID, ShouldEqual, 202)
				for _, a := range out[1:] {
					So(a.Kind, ShouldEqual, model.KindAssist)
					So(a.GoalID, ShouldEqual, 2)
					So(a.Minute, ShouldEqual, 70)
				}
			})
		})

		Convey("When a goal has no embedded assists", func() {
			out := normalize.Expand([]model.Incident{
				{Kind: model.KindGoal, ID: 3, Minute: 12},
			})

			Convey("Then nothing is synthesized", func() {
				So(out, ShouldHaveLength, 1)
			})
		})

		Convey("When the list mixes kinds", func() {
			out := normalize.Expand([]model.Incident{
				{Kind: model.KindYellow, ID: 1, Minute: 15},
				{Kind: model.KindGoal, ID: 4, Minute: 30, Assists: []model.AssistDetail{{ID: 300}}},
				{Kind: model.KindAssist, ID: 5, GoalID: 4, Minute: 30},
				{Kind: model.KindRed, ID: 2, Minute: 60},
			})

			Convey("Then originals keep their relative order and synthesis goes last", func() {
				So(out, ShouldHaveLength, 5)
				So(out[0].Kind, ShouldEqual, model.KindYellow)
				So(out[1].Kind, ShouldEqual, model.KindGoal)
				So(out[2].Kind, ShouldEqual, model.KindAssist)
				So(out[3].Kind, ShouldEqual, model.KindRed)
				So(out[4].Kind, ShouldEqual, model.KindAssist)
				So(out[4].ID, ShouldEqual, 300)
			})
		})

		Convey("When the input is empty or nil", func() {
			So(normalize.Expand(nil), ShouldBeEmpty)
			So(normalize.Expand([]model.Incident{}), ShouldBeEmpty)
		})
	})
}
