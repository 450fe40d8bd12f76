package pending_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/netninja/internal/domain/pending"
	. "github.com/smartystreets/goconvey/convey"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestRegistry(t *testing.T) {
	Convey("Given a new registry", t, func() {
		r := pending.New[string]()
		So(r.Len(), ShouldEqual, 0)

		Convey("When an item is put", func() {
			id := r.Put("puzzle")

			Convey("Then it gets a uuid and can be taken exactly once", func() {
				So(len(id), ShouldEqual, 36)
				v, ok := r.Peek(id)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "puzzle")

				v, ok = r.Take(id)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "puzzle")

				_, ok = r.Take(id)
				So(ok, ShouldBeFalse)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an unknown id is taken", func() {
			v, ok := r.Take("nope")
			So(ok, ShouldBeFalse)
			So(v, ShouldBeEmpty)
		})
	})

	Convey("Given a registry bounded to three", t, func() {
		var evicted []string
		r := pending.New[int](
			pending.WithMaxSize(3),
			pending.WithIDFunc(counter()),
			pending.WithEvictHook(func(id string, _ any) { evicted = append(evicted, id) }),
		)
		for i := 1; i <= 3; i++ {
			r.Put(i)
		}

		Convey("When a fourth item arrives", func() {
			r.Put(4)

			Convey("Then the oldest is evicted", func() {
				So(evicted, ShouldResemble, []string{"id-1"})
				So(r.Len(), ShouldEqual, 3)
				_, ok := r.Peek("id-1")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a middle item is taken first", func() {
			_, ok := r.Take("id-2")
			So(ok, ShouldBeTrue)
			r.Put(4)
			r.Put(5)

			Convey("Then eviction still follows insertion order", func() {
				So(evicted, ShouldResemble, []string{"id-1"})
				var ids []string
				r.Each(func(id string, _ int) { ids = append(ids, id) })
				So(ids, ShouldResemble, []string{"id-3", "id-4", "id-5"})
			})
		})
	})

	Convey("Given an unbounded registry", t, func() {
		r := pending.New[int](pending.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			r.Put(i)
		}
		So(r.Len(), ShouldEqual, 1000)
	})

	Convey("Given concurrent producers and consumers", t, func() {
		r := pending.New[int](pending.WithMaxSize(0))
		ids := make(chan string, 500)
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					ids <- r.Put(j)
				}
			}()
		}
		wg.Wait()
		close(ids)

		taken := 0
		for id := range ids {
			if _, ok := r.Take(id); ok {
				taken++
			}
		}
		So(taken, ShouldEqual, 500)
		So(r.Len(), ShouldEqual, 0)
	})
}
