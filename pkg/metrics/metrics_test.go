package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every metric is registered under netninja_engine", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				manager.dailyCompletions.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "netninja_engine_daily_completions_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("game"),
				WithHTTPBuckets([]float64{1, 10, 100}),
				WithStorageBuckets([]float64{0.5, 5}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithMetricsEnabled(false),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the names and labels follow the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				manager.playerLevel.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
					if f.GetName() == "test_game_player_level" {
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(names, ShouldContain, "test_game_player_level")
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording gameplay", func() {
			before := testutil.ToFloat64(globalManager.puzzlesAnswered.WithLabelValues("hex_match", OutcomeCorrect))
			RecordPuzzleAnswered("hex_match", OutcomeCorrect)
			RecordPuzzleGenerated("hex_match")
			xpBefore := testutil.ToFloat64(globalManager.xpAwarded.WithLabelValues("puzzle"))
			RecordXPAwarded("puzzle", 75)
			RecordXPAwarded("puzzle", 0)

			Convey("Then counters move by what was recorded", func() {
				So(testutil.ToFloat64(globalManager.puzzlesAnswered.WithLabelValues("hex_match", OutcomeCorrect)), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.xpAwarded.WithLabelValues("puzzle")), ShouldEqual, xpBefore+75)
			})
		})

		Convey("When updating the player gauges", func() {
			UpdatePlayer(1200, 3, 4)

			Convey("Then they hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.playerXP), ShouldEqual, 1200)
				So(testutil.ToFloat64(globalManager.playerLevel), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.playerStreak), ShouldEqual, 4)
			})
		})

		Convey("When rounds start and stop", func() {
			base := testutil.ToFloat64(globalManager.activeRounds.WithLabelValues("tracer"))
			UpdateActiveRounds("tracer", 1)
			UpdateActiveRounds("tracer", 1)
			UpdateActiveRounds("tracer", -1)

			Convey("Then the gauge tracks the difference", func() {
				So(testutil.ToFloat64(globalManager.activeRounds.WithLabelValues("tracer")), ShouldEqual, base+1)
			})
		})

		Convey("When every recorder is called", func() {
			Convey("Then none of them panics", func() {
				So(func() {
					RecordBadgeUnlocked("hello_world")
					RecordDailyCompletion()
					RecordFirewallDamage(10)
					RecordHintRequest("hint", OutcomeCorrect)
					RecordPurchase("theme_matrix", OutcomeCorrect)
					RecordEquip("theme")
					RecordStorageError("set")
					RecordStorageLatency("memory", "get", 0.2)
					UpdatePendingPuzzles(3)
					RecordPendingEviction()
					UpdateQueueSize(1)
					UpdateQueueCapacity(16)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordWorkerProcessingLatency(1.5)
					RecordWorkerError()
					RecordHTTPRequest("/stats", "GET", "200")
					RecordHTTPRequestDuration("/stats", "GET", "200", 2.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording is disabled", func() {
			globalManager.enabled = false
			defer func() { globalManager.enabled = true }()
			before := testutil.ToFloat64(globalManager.dailyCompletions)
			RecordDailyCompletion()

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(globalManager.dailyCompletions), ShouldEqual, before)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.queueEnqueued)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordQueueEnqueue()
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(globalManager.queueEnqueued), ShouldEqual, before+1000)
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		So(GetRegistry(), ShouldNotBeNil)
		_, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
	})
}
