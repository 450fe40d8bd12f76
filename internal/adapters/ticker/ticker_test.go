package ticker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/netninja/internal/adapters/ticker"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoop(t *testing.T) {
	Convey("Given a running loop", t, func() {
		var ticks atomic.Int64
		l := ticker.Start(context.Background(), time.Millisecond, func(time.Time) bool {
			ticks.Add(1)
			return true
		})

		Convey("When it is stopped", func() {
			time.Sleep(20 * time.Millisecond)
			l.Stop()
			after := ticks.Load()

			Convey("Then it has ticked and never ticks again", func() {
				So(after, ShouldBeGreaterThan, 0)
				time.Sleep(20 * time.Millisecond)
				So(ticks.Load(), ShouldEqual, after)
			})

			Convey("Then stopping again is harmless", func() {
				var wg sync.WaitGroup
				for i := 0; i < 3; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						l.Stop()
					}()
				}
				wg.Wait()
				So(ticks.Load(), ShouldEqual, after)
			})
		})
	})

	Convey("Given a tick func that ends the loop", t, func() {
		var ticks atomic.Int64
		l := ticker.Start(context.Background(), time.Millisecond, func(time.Time) bool {
			return ticks.Add(1) < 3
		})

		Convey("Then the loop exits by itself", func() {
			select {
			case <-l.Done():
			case <-time.After(time.Second):
			}
			So(ticks.Load(), ShouldEqual, 3)
			l.Stop()
		})
	})

	Convey("Given a cancelled parent context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		l := ticker.Start(ctx, time.Hour, func(time.Time) bool { return true })
		cancel()

		Convey("Then the loop exits", func() {
			select {
			case <-l.Done():
				So(true, ShouldBeTrue)
			case <-time.After(time.Second):
				So("loop still running", ShouldBeEmpty)
			}
		})
	})
}
