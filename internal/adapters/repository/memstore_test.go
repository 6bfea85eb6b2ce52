package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory session store", t, func() {
		ctx := context.Background()
		clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
		store := NewMemoryStore(ctx, WithClock(clock.Now), WithIDGenerator(sequentialIDs()), WithMaxSessions(3))
		defer func() { _ = store.Close() }()

		Convey("When a session is created", func() {
			sess, err := store.Create(ctx)

			Convey("Then it should be retrievable by id", func() {
				So(err, ShouldBeNil)
				So(sess.ID(), ShouldEqual, "s1")
				So(store.Count(ctx), ShouldEqual, 1)

				got, err := store.Get(ctx, "s1")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, sess)
			})

			Convey("And deleting it should remove it", func() {
				So(store.Delete(ctx, sess.ID()), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 0)

				_, err := store.Get(ctx, sess.ID())
				So(errors.Is(err, ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When an unknown id is requested", func() {
			_, getErr := store.Get(ctx, "nope")
			delErr := store.Delete(ctx, "nope")

			Convey("Then both calls should report not found", func() {
				So(errors.Is(getErr, ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(delErr, ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When the store is full", func() {
			for i := 0; i < 3; i++ {
				_, err := store.Create(ctx)
				So(err, ShouldBeNil)
				clock.Advance(time.Minute)
			}
			// s1 becomes the most recently used; s2 is now the oldest idle.
			_, err := store.Get(ctx, "s1")
			So(err, ShouldBeNil)

			_, err = store.Create(ctx)

			Convey("Then the longest idle session should be evicted", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 3)

				_, err := store.Get(ctx, "s2")
				So(errors.Is(err, ErrSessionNotFound), ShouldBeTrue)
				_, err = store.Get(ctx, "s1")
				So(err, ShouldBeNil)
				_, err = store.Get(ctx, "s4")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Create(cctx)

			Convey("Then create should fail with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)
			_, err := store.Create(ctx)

			Convey("Then create should fail and close stays idempotent", func() {
				So(errors.Is(err, ErrStoreClosed), ShouldBeTrue)
				So(store.Close(), ShouldBeNil)
			})
		})
	})
}

func TestMemoryStoreIdleSweep(t *testing.T) {
	Convey("Given a store with an idle TTL", t, func() {
		ctx := context.Background()
		clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
		store := NewMemoryStore(ctx,
			WithClock(clock.Now),
			WithIDGenerator(sequentialIDs()),
			WithIdleTTL(10*time.Minute),
			WithMetricsUpdateInterval(time.Hour),
		)
		defer func() { _ = store.Close() }()

		_, _ = store.Create(ctx)
		clock.Advance(8 * time.Minute)
		_, _ = store.Create(ctx)
		clock.Advance(5 * time.Minute)

		Convey("When sweeping", func() {
			n := store.sweepIdle()

			Convey("Then only sessions idle past the TTL should go", func() {
				So(n, ShouldEqual, 1)
				_, err := store.Get(ctx, "s1")
				So(errors.Is(err, ErrSessionNotFound), ShouldBeTrue)
				_, err = store.Get(ctx, "s2")
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a store without an idle TTL", t, func() {
		store := NewMemoryStore(context.Background())
		defer func() { _ = store.Close() }()
		_, _ = store.Create(context.Background())

		Convey("Then sweeping should keep everything", func() {
			So(store.sweepIdle(), ShouldEqual, 0)
			So(store.Count(context.Background()), ShouldEqual, 1)
		})
	})
}

func TestMemoryStoreDefaults(t *testing.T) {
	Convey("Given a store with default options", t, func() {
		store := NewMemoryStore(context.Background())
		defer func() { _ = store.Close() }()

		Convey("Then session ids should be UUIDs", func() {
			sess, err := store.Create(context.Background())
			So(err, ShouldBeNil)
			_, perr := uuid.Parse(sess.ID())
			So(perr, ShouldBeNil)
			So(store.maxSessions, ShouldEqual, DefaultMaxSessions)
		})
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	Convey("Given concurrent creates and deletes", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(ctx, WithMaxSessions(50))
		defer func() { _ = store.Close() }()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sess, err := store.Create(ctx)
				if err != nil {
					return
				}
				_, _ = store.Get(ctx, sess.ID())
			}()
		}
		wg.Wait()

		Convey("Then the cap should hold", func() {
			So(store.Count(ctx), ShouldBeLessThanOrEqualTo, 50)
		})
	})
}
