package progression_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type mapStore struct {
	mu      sync.Mutex
	m       map[string]string
	failSet bool
	failGet error
}

func newMapStore() *mapStore { return &mapStore{m: map[string]string{}} }

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return "", s.failGet
	}
	v, ok := s.m[key]
	if !ok {
		return "", progression.ErrNotFound
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return errors.New("disk full")
	}
	s.m[key] = value
	return nil
}

type dailyFailStore struct{ *mapStore }

func (s *dailyFailStore) Get(ctx context.Context, key string) (string, error) {
	if key == progression.KeyLastDaily {
		return "", errors.New("timeout")
	}
	return s.mapStore.Get(ctx, key)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newEngine(store progression.Store, c *clock) *progression.Engine {
	e, err := progression.NewEngine(context.Background(), store,
		progression.WithLogger(logger.Nop()),
		progression.WithClock(c.now),
		progression.WithLocation(time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return e
}

func TestEngineDefaults(t *testing.T) {
	Convey("Given an empty store", t, func() {
		e := newEngine(newMapStore(), &clock{t: time.Now()})

		Convey("Then the player starts with the default record", func() {
			s := e.Stats()
			So(s.XP, ShouldEqual, 0)
			So(s.Level, ShouldEqual, 1)
			So(s.Streak, ShouldEqual, 0)
			So(s.Badges, ShouldBeEmpty)
			So(s.Inventory, ShouldResemble, []string{"theme_default", "av_robot"})
			So(s.Equipped, ShouldResemble, progression.Equipped{Theme: "theme_default", Avatar: "av_robot", Frame: "frame_default"})
			So(e.DailyCompletedToday(), ShouldBeFalse)
		})
	})
}

func TestAwardXP(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		ctx := context.Background()
		store := newMapStore()
		e := newEngine(store, &clock{t: time.Now()})

		Convey("When 49 XP is awarded", func() {
			out, err := e.AwardXP(ctx, 49)
			So(err, ShouldBeNil)

			Convey("Then hello_world is still locked", func() {
				So(out.Unlocked, ShouldBeEmpty)
				So(out.Stats.HasBadge("hello_world"), ShouldBeFalse)
			})

			Convey("Then one more XP unlocks it", func() {
				out, err := e.AwardXP(ctx, 1)
				So(err, ShouldBeNil)
				So(out.Unlocked, ShouldResemble, []string{"hello_world"})
				So(out.Stats.XP, ShouldEqual, 50)
			})
		})

		Convey("When crossing two level boundaries at once", func() {
			out, err := e.AwardXP(ctx, 1000)
			So(err, ShouldBeNil)

			Convey("Then level and badges follow in catalog order", func() {
				So(out.LeveledUp, ShouldBeTrue)
				So(out.Stats.Level, ShouldEqual, 3)
				So(out.Stats.Badges, ShouldResemble, []string{"hello_world", "script_kiddie", "binary_baron"})
			})
		})

		Convey("When approaching level 10", func() {
			_, err := e.AwardXP(ctx, 4499)
			So(err, ShouldBeNil)
			So(e.Stats().Level, ShouldEqual, 9)
			So(e.Stats().HasBadge("cyber_master"), ShouldBeFalse)

			out, err := e.AwardXP(ctx, 1)
			So(err, ShouldBeNil)
			So(out.Stats.Level, ShouldEqual, 10)
			So(out.Unlocked, ShouldResemble, []string{"cyber_master"})
		})

		Convey("When the amount is negative", func() {
			_, err := e.AwardXP(ctx, -5)

			Convey("Then it is refused and nothing changes", func() {
				So(errors.Is(err, progression.ErrNegativeAmount), ShouldBeTrue)
				So(e.Stats().XP, ShouldEqual, 0)
			})
		})

		Convey("When XP is spent below a level boundary", func() {
			_, err := e.AwardXP(ctx, 600)
			So(err, ShouldBeNil)
			out, err := e.Update(ctx, func(s *progression.Stats) error {
				s.XP -= 500
				return nil
			})

			Convey("Then the level does not drop", func() {
				So(err, ShouldBeNil)
				So(out.Stats.XP, ShouldEqual, 100)
				So(out.Stats.Level, ShouldEqual, 2)
			})
		})

		Convey("When an update fails", func() {
			_, err := e.Update(ctx, func(s *progression.Stats) error {
				s.XP = 9999
				return errors.New("refused")
			})

			Convey("Then the record is untouched", func() {
				So(err, ShouldNotBeNil)
				So(e.Stats().XP, ShouldEqual, 0)
			})
		})

		Convey("When every mutation is persisted", func() {
			_, err := e.AwardXP(ctx, 120)
			So(err, ShouldBeNil)

			Convey("Then a new engine over the same store sees the record", func() {
				var saved progression.Stats
				So(json.Unmarshal([]byte(store.m[progression.KeyStats]), &saved), ShouldBeNil)
				So(saved.XP, ShouldEqual, 120)

				again := newEngine(store, &clock{t: time.Now()})
				So(again.Stats(), ShouldResemble, e.Stats())
			})
		})

		Convey("When the store refuses writes", func() {
			store.failSet = true
			out, err := e.AwardXP(ctx, 70)

			Convey("Then the award still applies in memory", func() {
				So(err, ShouldBeNil)
				So(out.Stats.XP, ShouldEqual, 70)
				So(e.Stats().XP, ShouldEqual, 70)
			})
		})
	})

	Convey("Given concurrent awards", t, func() {
		e := newEngine(newMapStore(), &clock{t: time.Now()})
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = e.AwardXP(context.Background(), 10)
			}()
		}
		wg.Wait()

		So(e.Stats().XP, ShouldEqual, 1000)
		So(e.Stats().Level, ShouldEqual, 3)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a save behind a store that cannot be read", t, func() {
		saved := `{"xp":4000,"level":9,"streak":2}`
		store := newMapStore()
		store.m[progression.KeyStats] = saved
		store.failGet = errors.New("connection reset")

		_, err := progression.NewEngine(context.Background(), store, progression.WithLogger(logger.Nop()))

		Convey("Then loading fails and the save is left alone", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, store.failGet), ShouldBeTrue)
			So(store.m[progression.KeyStats], ShouldEqual, saved)
		})

		Convey("Then the save loads once the store recovers", func() {
			store.failGet = nil
			e := newEngine(store, &clock{t: time.Now()})
			So(e.Stats().XP, ShouldEqual, 4000)
			So(e.Stats().Level, ShouldEqual, 9)
		})
	})

	Convey("Given a store that cannot read the daily marker", t, func() {
		store := &dailyFailStore{mapStore: newMapStore()}
		_, err := progression.NewEngine(context.Background(), store, progression.WithLogger(logger.Nop()))

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a corrupt save", t, func() {
		store := newMapStore()
		store.m[progression.KeyStats] = "{not json"
		e := newEngine(store, &clock{t: time.Now()})

		Convey("Then the engine falls back to defaults", func() {
			So(e.Stats(), ShouldResemble, progression.DefaultStats())
		})
	})

	Convey("Given a partial save", t, func() {
		store := newMapStore()
		store.m[progression.KeyStats] = `{"xp":700,"inventory":["theme_matrix"],"equipped":{"theme":"theme_matrix","avatar":"av_ghost"}}`
		s := newEngine(store, &clock{t: time.Now()}).Stats()

		Convey("Then missing fields take defaults and invariants are repaired", func() {
			So(s.XP, ShouldEqual, 700)
			So(s.Level, ShouldEqual, 2)
			So(s.Inventory, ShouldResemble, []string{"theme_default", "av_robot", "theme_matrix"})
			So(s.Equipped.Theme, ShouldEqual, "theme_matrix")
			So(s.Equipped.Avatar, ShouldEqual, "av_robot")
			So(s.Equipped.Frame, ShouldEqual, "frame_default")
		})
	})

	Convey("Given a saved level above the formula", t, func() {
		store := newMapStore()
		store.m[progression.KeyStats] = `{"xp":10,"level":7}`
		e := newEngine(store, &clock{t: time.Now()})

		Convey("Then the level is kept", func() {
			out, err := e.AwardXP(context.Background(), 5)
			So(err, ShouldBeNil)
			So(out.Stats.Level, ShouldEqual, 7)
			So(out.LeveledUp, ShouldBeFalse)
		})
	})
}

func TestDailyCompletion(t *testing.T) {
	Convey("Given a fixed clock", t, func() {
		ctx := context.Background()
		store := newMapStore()
		c := &clock{t: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)}
		e := newEngine(store, c)
		So(e.Today(), ShouldEqual, "Thu Oct 15 2026")

		Convey("When the daily challenge is completed", func() {
			out, err := e.RecordDailyCompletion(ctx)

			Convey("Then XP rises by 300 and the streak by one", func() {
				So(err, ShouldBeNil)
				So(out.Stats.XP, ShouldEqual, 300)
				So(out.Stats.Streak, ShouldEqual, 1)
				So(store.m[progression.KeyLastDaily], ShouldEqual, "Thu Oct 15 2026")
				So(e.DailyCompletedToday(), ShouldBeTrue)
			})

			Convey("Then a second completion the same day is refused", func() {
				c.t = c.t.Add(14 * time.Hour)
				_, err := e.RecordDailyCompletion(ctx)
				So(errors.Is(err, progression.ErrAlreadyRecorded), ShouldBeTrue)
				So(e.Stats().XP, ShouldEqual, 300)
				So(e.Stats().Streak, ShouldEqual, 1)
			})

			Convey("Then the next calendar day counts again", func() {
				c.t = c.t.Add(24 * time.Hour)
				So(e.DailyCompletedToday(), ShouldBeFalse)
				out, err := e.RecordDailyCompletion(ctx)
				So(err, ShouldBeNil)
				So(out.Stats.Streak, ShouldEqual, 2)
			})

			Convey("Then a restart remembers the marker", func() {
				So(newEngine(store, c).DailyCompletedToday(), ShouldBeTrue)
			})
		})

		Convey("When five days are completed", func() {
			for i := 0; i < 5; i++ {
				_, err := e.RecordDailyCompletion(ctx)
				So(err, ShouldBeNil)
				c.t = c.t.Add(24 * time.Hour)
			}

			Convey("Then packet_stream unlocks", func() {
				So(e.Stats().HasBadge("packet_stream"), ShouldBeTrue)
			})
		})
	})
}
