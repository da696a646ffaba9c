package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/talentmatch/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording run requests", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the request is new", func() {
				seen := d.SeenAndRecord(context.Background(), "req-1")

				Convey("Then it should return false and record the request", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the request was already seen", func() {
				d.SeenAndRecord(context.Background(), "req-1")

				seen := d.SeenAndRecord(context.Background(), "req-1")

				Convey("Then it should report the duplicate", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple distinct requests are recorded", func() {
				requests := []string{"req-1", "req-2", "req-3", "req-4", "req-5"}

				for _, id := range requests {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all requests should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(requests)))

					for _, id := range requests {
						So(d.SeenAndRecord(context.Background(), id), ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording requests", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the request exists", func() {
				d.SeenAndRecord(context.Background(), "req-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "req-1")

				Convey("Then it should be removed and allow a retry", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(context.Background(), "req-1"), ShouldBeFalse)
				})
			})

			Convey("And the request doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And a middle entry is unrecorded", func() {
				d.SeenAndRecord(context.Background(), "req-1")
				d.SeenAndRecord(context.Background(), "req-2")
				d.SeenAndRecord(context.Background(), "req-3")

				d.Unrecord(context.Background(), "req-2")

				Convey("Then the neighbours should stay recorded", func() {
					So(d.Size(), ShouldEqual, 2)
					So(d.SeenAndRecord(context.Background(), "req-1"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "req-3"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "req-2"), ShouldBeFalse)
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				for _, id := range []string{"req-1", "req-2", "req-3"} {
					So(d.SeenAndRecord(context.Background(), id), ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				seen := d.SeenAndRecord(context.Background(), "req-4")

				Convey("Then the oldest entry should be evicted", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// Newer entries survived the eviction.
					So(d.SeenAndRecord(context.Background(), "req-2"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "req-3"), ShouldBeTrue)
					So(d.SeenAndRecord(context.Background(), "req-4"), ShouldBeTrue)

					// The oldest was forgotten and can be recorded again.
					So(d.SeenAndRecord(context.Background(), "req-1"), ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)
				})
			})

			Convey("And entries are unrecorded at capacity", func() {
				for _, id := range []string{"req-1", "req-2", "req-3"} {
					d.SeenAndRecord(context.Background(), id)
				}
				d.Unrecord(context.Background(), "req-1")
				d.Unrecord(context.Background(), "req-3")

				Convey("Then eviction bookkeeping should survive the removals", func() {
					So(d.Size(), ShouldEqual, 1)
					So(d.SeenAndRecord(context.Background(), "req-4"), ShouldBeFalse)
					So(d.SeenAndRecord(context.Background(), "req-5"), ShouldBeFalse)
					So(d.SeenAndRecord(context.Background(), "req-6"), ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many requests are recorded", func() {
				const numRequests = 1000
				for i := 0; i < numRequests; i++ {
					id := fmt.Sprintf("req-%d", i)
					So(d.SeenAndRecord(context.Background(), id), ShouldBeFalse)
				}

				Convey("Then all requests should be kept without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numRequests))

					for i := 0; i < numRequests; i++ {
						id := fmt.Sprintf("req-%d", i)
						So(d.SeenAndRecord(context.Background(), id), ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given a deduper under concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("When many goroutines record the same request", func() {
			const goroutines = 32
			var wg sync.WaitGroup
			recorded := make([]bool, goroutines)

			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					recorded[idx] = !d.SeenAndRecord(context.Background(), "shared-req")
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one should win the recording", func() {
				wins := 0
				for _, won := range recorded {
					if won {
						wins++
					}
				}
				So(wins, ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When goroutines record distinct requests", func() {
			const goroutines = 32
			var wg sync.WaitGroup

			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					d.SeenAndRecord(context.Background(), fmt.Sprintf("req-%d", idx))
				}(i)
			}
			wg.Wait()

			Convey("Then all should be recorded", func() {
				So(d.Size(), ShouldEqual, int64(goroutines))
			})
		})
	})
}
