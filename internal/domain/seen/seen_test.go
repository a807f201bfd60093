package seen_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	seen "github.com/okian/matchline/internal/domain/seen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given a new seen-cache", t, func() {
		ctx := context.Background()

		Convey("When recording a fresh id", func() {
			c := seen.NewCache()
			So(c.SeenAndRecord(ctx, "snap-1"), ShouldBeFalse)

			Convey("Then a repeat is reported as seen", func() {
				So(c.SeenAndRecord(ctx, "snap-1"), ShouldBeTrue)
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an id", func() {
			c := seen.NewCache()
			c.SeenAndRecord(ctx, "snap-1")
			c.Unrecord(ctx, "snap-1")

			Convey("Then it can be recorded again", func() {
				So(c.SeenAndRecord(ctx, "snap-1"), ShouldBeFalse)
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the cache is full", func() {
			c := seen.NewCache(seen.WithMaxSize(3))
			for i := 0; i < 3; i++ {
				c.SeenAndRecord(ctx, fmt.Sprintf("snap-%d", i))
			}
			c.SeenAndRecord(ctx, "snap-3")

			Convey("Then the oldest id is evicted first", func() {
				So(c.Size(), ShouldEqual, 3)
				So(c.SeenAndRecord(ctx, "snap-0"), ShouldBeFalse) // evicted, so fresh again
				So(c.SeenAndRecord(ctx, "snap-3"), ShouldBeTrue)
			})
		})

		Convey("When accessed concurrently", func() {
			c := seen.NewCache(seen.WithMaxSize(10_000))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						c.SeenAndRecord(ctx, fmt.Sprintf("snap-%d-%d", g, i))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every id is recorded exactly once", func() {
				So(c.Size(), ShouldEqual, 1600)
			})
		})
	})
}
