package firewall_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/okian/netninja/internal/domain/firewall"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRules(t *testing.T) {
	Convey("Given the wave gates", t, func() {
		So(firewall.Dimensions(1), ShouldResemble, []firewall.Dimension{firewall.DimensionPort})
		So(len(firewall.Dimensions(3)), ShouldEqual, 2)
		So(len(firewall.Dimensions(5)), ShouldEqual, 3)
		So(len(firewall.Dimensions(7)), ShouldEqual, 4)
	})

	Convey("Given rules drawn at wave 1", t, func() {
		rng := rand.New(rand.NewSource(3))

		Convey("Then only port rules appear with a matching description", func() {
			for i := 0; i < 100; i++ {
				r := firewall.NewRule(rng, 1)
				So(r.Dimension, ShouldEqual, firewall.DimensionPort)
				if r.Block {
					So(r.Description, ShouldStartWith, "BLOCK Port ")
				} else {
					So(r.Description, ShouldStartWith, "ALLOW ONLY Port ")
				}
			}
		})
	})

	Convey("Given rules drawn at wave 20", t, func() {
		rng := rand.New(rand.NewSource(5))
		seen := map[firewall.Dimension]bool{}
		for i := 0; i < 400; i++ {
			r := firewall.NewRule(rng, 20)
			seen[r.Dimension] = true
			So(r.Description, ShouldNotBeBlank)
		}

		Convey("Then every dimension is reachable", func() {
			So(len(seen), ShouldEqual, 4)
		})
	})

	Convey("Given a block and an allow-only rule on the same origin", t, func() {
		block := firewall.Rule{Dimension: firewall.DimensionOrigin, Block: true, Origin: "RU"}
		allow := firewall.Rule{Dimension: firewall.DimensionOrigin, Block: false, Origin: "RU"}
		ru := firewall.Packet{Origin: "RU"}
		us := firewall.Packet{Origin: "US"}

		Convey("Then the predicates are complementary", func() {
			So(block.Blocks(ru), ShouldBeTrue)
			So(block.Blocks(us), ShouldBeFalse)
			So(allow.Blocks(ru), ShouldBeFalse)
			So(allow.Blocks(us), ShouldBeTrue)
		})
	})
}

func TestDifficulty(t *testing.T) {
	Convey("Given the presets", t, func() {
		So(firewall.Agent.SpawnInterval(1), ShouldEqual, 1850*time.Millisecond)
		So(firewall.Agent.SpawnInterval(20), ShouldEqual, 500*time.Millisecond)
		So(firewall.Recruit.HitXP(), ShouldEqual, 5)
		So(firewall.Agent.HitXP(), ShouldEqual, 10)
		So(firewall.SpecOps.HitXP(), ShouldEqual, 20)

		d, err := firewall.DifficultyByName("SpecOps")
		So(err, ShouldBeNil)
		So(d.Damage, ShouldEqual, 20)

		_, err = firewall.DifficultyByName("nightmare")
		So(errors.Is(err, firewall.ErrUnknownDifficulty), ShouldBeTrue)
	})
}

func TestPackets(t *testing.T) {
	Convey("Given packets spawned at wave 1", t, func() {
		rng := rand.New(rand.NewSource(9))

		Convey("Then they are all standard with base speed", func() {
			for i := 0; i < 100; i++ {
				p := firewall.NewPacket(rng, i, 1, firewall.Agent)
				So(p.Variant, ShouldEqual, firewall.VariantStandard)
				So(p.Speed, ShouldAlmostEqual, 0.24, 1e-9)
				So(p.Hits, ShouldEqual, 1)
			}
		})
	})

	Convey("Given packets spawned at wave 20", t, func() {
		rng := rand.New(rand.NewSource(13))
		base := firewall.Agent.SpeedBase + 20*firewall.Agent.SpeedMulti
		variants := map[firewall.Variant]bool{}

		for i := 0; i < 1000; i++ {
			p := firewall.NewPacket(rng, i, 20, firewall.Agent)
			variants[p.Variant] = true
			switch p.Variant {
			case firewall.VariantTrojan:
				So(p.Hits, ShouldEqual, 2)
				So(p.Speed, ShouldAlmostEqual, base*0.6, 1e-9)
				So(p.Points(), ShouldEqual, 250)
			case firewall.VariantStealth:
				So(p.Speed, ShouldAlmostEqual, base*1.5, 1e-9)
			case firewall.VariantWorm:
				So(p.Points(), ShouldEqual, 150)
			default:
				So(p.Points(), ShouldEqual, 100)
			}
		}

		Convey("Then every variant shows up", func() {
			So(len(variants), ShouldEqual, 4)
		})
	})
}

func TestRound(t *testing.T) {
	Convey("Given a fresh round", t, func() {
		start := time.Unix(1_700_000_000, 0)
		var rewards []int
		r := firewall.NewRound(rand.New(rand.NewSource(21)), firewall.Agent, start,
			firewall.WithReward(func(xp int) { rewards = append(rewards, xp) }))

		snap := r.Snapshot()
		So(snap.State, ShouldEqual, firewall.StatePlaying)
		So(snap.Health, ShouldEqual, 100)
		So(snap.Wave, ShouldEqual, 1)
		So(strings.Contains(snap.Rule.Description, "Port"), ShouldBeTrue)

		Convey("When time passes the spawn interval", func() {
			So(r.Tick(start.Add(time.Second)), ShouldBeNil)
			So(len(r.Snapshot().Packets), ShouldEqual, 0)

			So(r.Tick(start.Add(2*time.Second)), ShouldBeNil)
			snap := r.Snapshot()

			Convey("Then one packet is in flight and has moved", func() {
				So(len(snap.Packets), ShouldEqual, 1)
				So(snap.Packets[0].X, ShouldBeGreaterThan, 0)
			})

			Convey("And clicking it is judged by the rule", func() {
				p := snap.Packets[0]
				res, err := r.Click(p.ID)
				So(err, ShouldBeNil)
				So(res.Destroyed, ShouldBeTrue)

				after := r.Snapshot()
				if snap.Rule.Blocks(p) {
					So(res.Correct, ShouldBeTrue)
					So(after.Score, ShouldEqual, 100)
					So(rewards, ShouldResemble, []int{10})
				} else {
					So(res.Correct, ShouldBeFalse)
					So(after.Health, ShouldEqual, 90)
					So(rewards, ShouldBeEmpty)
				}
				So(after.Packets, ShouldBeEmpty)
			})
		})

		Convey("When clicking a packet that does not exist", func() {
			_, err := r.Click(42)
			So(errors.Is(err, firewall.ErrUnknownPacket), ShouldBeTrue)
		})

		Convey("When twelve seconds pass", func() {
			So(r.Tick(start.Add(12*time.Second+time.Millisecond)), ShouldBeNil)

			Convey("Then the wave advances", func() {
				So(r.Snapshot().Wave, ShouldEqual, 2)
			})
		})

		Convey("When the round is stopped", func() {
			r.Stop()

			Convey("Then further mutations are refused", func() {
				So(errors.Is(r.Tick(start.Add(time.Hour)), firewall.ErrRoundOver), ShouldBeTrue)
				_, err := r.Click(1)
				So(errors.Is(err, firewall.ErrRoundOver), ShouldBeTrue)
				So(r.Snapshot().State, ShouldEqual, firewall.StateStopped)
			})
		})

		Convey("When nobody defends for a long time", func() {
			now := start
			for i := 0; i < 200_000 && r.Snapshot().State == firewall.StatePlaying; i++ {
				now = now.Add(16 * time.Millisecond)
				_ = r.Tick(now)
			}
			final := r.Snapshot()

			Convey("Then the wave is capped and health never goes negative", func() {
				So(final.Wave, ShouldBeLessThanOrEqualTo, 20)
				So(final.Health, ShouldBeGreaterThanOrEqualTo, 0)
				if final.State == firewall.StateGameOver {
					So(final.Health, ShouldEqual, 0)
				}
			})
		})
	})
}
