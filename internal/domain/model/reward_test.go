package model_test

import (
	"testing"
	"time"

	model "github.com/okian/netninja/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestReward(t *testing.T) {
	convey.Convey("Given NewReward", t, func() {
		before := time.Now()
		r := model.NewReward(model.SourceTracer, 10)

		convey.Convey("Then it carries the source and amount", func() {
			convey.So(r.Source, convey.ShouldEqual, "tracer")
			convey.So(r.Amount, convey.ShouldEqual, 10)
		})

		convey.Convey("Then it is stamped with an id and time", func() {
			convey.So(len(r.ID), convey.ShouldEqual, 36)
			convey.So(r.TS.Before(before), convey.ShouldBeFalse)
		})

		convey.Convey("Then ids are unique", func() {
			convey.So(model.NewReward(model.SourceTracer, 10).ID, convey.ShouldNotEqual, r.ID)
		})
	})

	convey.Convey("Given a zero Reward", t, func() {
		var r model.Reward
		convey.So(r.ID, convey.ShouldEqual, "")
		convey.So(r.Amount, convey.ShouldEqual, 0)
		convey.So(r.TS, convey.ShouldEqual, time.Time{})
	})
}
