package model_test

import (
	"testing"

	model "github.com/okian/matchline/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPeriodInference(t *testing.T) {
	convey.Convey("Given incidents without a recorded period", t, func() {
		convey.Convey("When the minute is 45 or earlier", func() {
			convey.So(model.PeriodFor(0), convey.ShouldEqual, model.PeriodFirst)
			convey.So(model.PeriodFor(23), convey.ShouldEqual, model.PeriodFirst)
			convey.So(model.PeriodFor(45), convey.ShouldEqual, model.PeriodFirst)
		})

		convey.Convey("When the minute is after 45", func() {
			convey.So(model.PeriodFor(46), convey.ShouldEqual, model.PeriodSecond)
			convey.So(model.PeriodFor(90), convey.ShouldEqual, model.PeriodSecond)
			convey.So(model.PeriodFor(120), convey.ShouldEqual, model.PeriodSecond)
		})

		convey.Convey("When the period was recorded it is kept unchanged", func() {
			convey.So(model.PeriodExtra.Effective(10), convey.ShouldEqual, model.PeriodExtra)
			convey.So(model.PeriodFirst.Effective(90), convey.ShouldEqual, model.PeriodFirst)
		})

		convey.Convey("When the period is unknown Effective infers it", func() {
			convey.So(model.PeriodUnknown.Effective(30), convey.ShouldEqual, model.PeriodFirst)
			convey.So(model.PeriodUnknown.Effective(70), convey.ShouldEqual, model.PeriodSecond)
		})
	})
}

func TestPeriodBlocks(t *testing.T) {
	convey.Convey("Given the four match periods", t, func() {
		convey.Convey("Then second half, extra time and penalties share the 2+ block", func() {
			convey.So(model.PeriodSecond.SecondOrLater(), convey.ShouldBeTrue)
			convey.So(model.PeriodExtra.SecondOrLater(), convey.ShouldBeTrue)
			convey.So(model.PeriodPenalties.SecondOrLater(), convey.ShouldBeTrue)
			convey.So(model.PeriodFirst.SecondOrLater(), convey.ShouldBeFalse)
			convey.So(model.PeriodUnknown.SecondOrLater(), convey.ShouldBeFalse)
		})

		convey.Convey("Then the wire representation round-trips", func() {
			for _, p := range []model.Period{model.PeriodFirst, model.PeriodSecond, model.PeriodExtra, model.PeriodPenalties} {
				convey.So(model.ParsePeriod(p.String()), convey.ShouldEqual, p)
			}
			convey.So(model.ParsePeriod("bogus"), convey.ShouldEqual, model.PeriodUnknown)
		})
	})
}

func TestStatus(t *testing.T) {
	convey.Convey("Given the match status state machine", t, func() {
		convey.Convey("Then only terminal states end the match", func() {
			convey.So(model.StatusTerminated.MatchEnded(), convey.ShouldBeTrue)
			convey.So(model.StatusFinished.MatchEnded(), convey.ShouldBeTrue)
			convey.So(model.StatusSecondHalf.MatchEnded(), convey.ShouldBeFalse)
			convey.So(model.StatusProgrammed.MatchEnded(), convey.ShouldBeFalse)
		})

		convey.Convey("Then the first half is over from half-time onwards", func() {
			convey.So(model.StatusHalfTime.FirstHalfEnded(), convey.ShouldBeTrue)
			convey.So(model.StatusSecondHalf.FirstHalfEnded(), convey.ShouldBeTrue)
			convey.So(model.StatusFinished.FirstHalfEnded(), convey.ShouldBeTrue)
			convey.So(model.StatusFirstHalf.FirstHalfEnded(), convey.ShouldBeFalse)
		})

		convey.Convey("Then suspensions suppress every ended marker", func() {
			convey.So(model.StatusSuspended.MatchEnded(), convey.ShouldBeFalse)
			convey.So(model.StatusSuspended.FirstHalfEnded(), convey.ShouldBeFalse)
			convey.So(model.StatusSuspended.SecondHalfEnded(), convey.ShouldBeFalse)
			convey.So(model.StatusPostponed.FirstHalfEnded(), convey.ShouldBeFalse)
		})

		convey.Convey("Then unknown statuses are rejected by Known", func() {
			convey.So(model.StatusFinished.Known(), convey.ShouldBeTrue)
			convey.So(model.Status("warmup").Known(), convey.ShouldBeFalse)
		})
	})
}
