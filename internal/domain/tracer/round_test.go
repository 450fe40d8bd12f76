package tracer_test

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/okian/netninja/internal/domain/tracer"
	. "github.com/smartystreets/goconvey/convey"
)

func correctChoice(r *tracer.Round) string {
	hop := r.Current()
	return hop.Options[hop.Correct].String()
}

func wrongChoice(r *tracer.Round) string {
	hop := r.Current()
	return strconv.Itoa((hop.Correct+1)%len(hop.Options) + 1)
}

func ticksUntilOver(r *tracer.Round) int {
	n := 0
	for r.Tick() == nil {
		n++
	}
	return n
}

func TestTracerRound(t *testing.T) {
	Convey("Given a level 1 round", t, func() {
		var rewards []int
		r := tracer.NewRound(rand.New(rand.NewSource(5)), 1, tracer.WithReward(func(xp int) {
			rewards = append(rewards, xp)
		}))

		s := r.Snapshot()
		So(s.State, ShouldEqual, tracer.StatePlanning)
		So(s.Level, ShouldEqual, 1)
		So(s.Hops, ShouldEqual, puzzle.HopCount(1))
		So(s.Router, ShouldEqual, "Router-A")
		So(len(s.Options), ShouldEqual, 3)
		So(s.Integrity, ShouldEqual, 100.0)

		Convey("When a tick passes", func() {
			So(r.Tick(), ShouldBeNil)

			Convey("Then integrity decays by 0.15", func() {
				So(r.Snapshot().Integrity, ShouldAlmostEqual, 99.85, 1e-9)
			})
		})

		Convey("When nobody routes the packet", func() {
			n := ticksUntilOver(r)

			Convey("Then it corrupts once integrity hits zero", func() {
				So(n, ShouldBeBetweenOrEqual, 666, 668)
				s := r.Snapshot()
				So(s.State, ShouldEqual, tracer.StateFailure)
				So(s.Integrity, ShouldEqual, 0.0)
				So(s.Feedback, ShouldEqual, "PACKET CORRUPTED. Integrity check failed. Route faster next time.")
				So(rewards, ShouldBeEmpty)
			})
		})

		Convey("When every hop is routed correctly", func() {
			hops := r.Snapshot().Hops
			var last tracer.Result
			for i := 0; i < hops; i++ {
				res, err := r.Select(correctChoice(r))
				So(err, ShouldBeNil)
				So(res.Correct, ShouldBeTrue)
				last = res
			}

			Convey("Then each intermediate hop pays 10 and delivery pays the bonus", func() {
				So(last.Delivered, ShouldBeTrue)
				So(last.XP, ShouldEqual, 100+20+100)
				So(len(rewards), ShouldEqual, hops)
				for _, xp := range rewards[:hops-1] {
					So(xp, ShouldEqual, puzzle.XPRouteHop)
				}
				So(rewards[hops-1], ShouldEqual, last.XP)
				So(r.Snapshot().State, ShouldEqual, tracer.StateSuccess)
			})

			Convey("Then the round stops decaying", func() {
				So(errors.Is(r.Tick(), tracer.ErrRoundOver), ShouldBeTrue)
			})

			Convey("Then Next moves one level up", func() {
				So(r.Next(), ShouldBeNil)
				s := r.Snapshot()
				So(s.Level, ShouldEqual, 2)
				So(s.State, ShouldEqual, tracer.StatePlanning)
				So(s.Hops, ShouldEqual, puzzle.HopCount(2))
				So(s.Integrity, ShouldEqual, 100.0)
			})
		})

		Convey("When a wrong route is picked", func() {
			hop := r.Current()
			res, err := r.Select(wrongChoice(r))

			Convey("Then the packet is dropped", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldBeFalse)
				So(res.Feedback, ShouldStartWith, "Packet Dropped! "+hop.Destination+" does not fit in ")
				So(r.Snapshot().State, ShouldEqual, tracer.StateFailure)
				So(errors.Is(r.Next(), tracer.ErrNotCleared), ShouldBeTrue)
			})

			Convey("Then Retry regenerates the same level", func() {
				So(r.Retry(), ShouldBeNil)
				s := r.Snapshot()
				So(s.Level, ShouldEqual, 1)
				So(s.Hop, ShouldEqual, 0)
				So(s.State, ShouldEqual, tracer.StatePlanning)
			})
		})

		Convey("When the selection names nothing offered", func() {
			_, err := r.Select("9")
			So(errors.Is(err, tracer.ErrUnknownOption), ShouldBeTrue)
			So(r.Snapshot().State, ShouldEqual, tracer.StatePlanning)
		})

		Convey("When the round is stopped", func() {
			r.Stop()

			Convey("Then every mutation is refused", func() {
				So(errors.Is(r.Tick(), tracer.ErrRoundOver), ShouldBeTrue)
				_, err := r.Select("1")
				So(errors.Is(err, tracer.ErrRoundOver), ShouldBeTrue)
				So(errors.Is(r.Retry(), tracer.ErrRoundOver), ShouldBeTrue)
				So(errors.Is(r.Next(), tracer.ErrRoundOver), ShouldBeTrue)
				So(r.Snapshot().State, ShouldEqual, tracer.StateStopped)
			})
		})
	})

	Convey("Given a round with time dilation", t, func() {
		r := tracer.NewRound(rand.New(rand.NewSource(6)), 3, tracer.WithTimeDilation(true))
		So(r.DecayRate(), ShouldEqual, 0.05)

		Convey("Then integrity lasts three times as long", func() {
			So(ticksUntilOver(r), ShouldBeBetweenOrEqual, 1999, 2001)
		})
	})
}
