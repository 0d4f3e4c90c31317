package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/careermap/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		s := repository.NewMemoryStore[string](ctx,
			repository.WithMaxSessions(2),
			repository.WithIdleTTL(time.Hour),
			repository.WithClock(clock.Now),
		)
		defer s.Close()

		Convey("A created session can be read back and deleted", func() {
			id, err := s.Create(ctx, "alice")
			So(err, ShouldBeNil)
			So(id, ShouldNotBeBlank)

			got, err := s.Get(ctx, id)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "alice")
			So(s.Count(ctx), ShouldEqual, 1)

			So(s.Delete(ctx, id), ShouldBeNil)
			_, err = s.Get(ctx, id)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.Delete(ctx, id), repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Unknown ids are not found", func() {
			_, err := s.Get(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When full, the least recently used session is evicted", func() {
			first, _ := s.Create(ctx, "first")
			clock.Advance(time.Minute)
			second, _ := s.Create(ctx, "second")
			clock.Advance(time.Minute)
			_, err := s.Get(ctx, first)
			So(err, ShouldBeNil)
			clock.Advance(time.Minute)

			third, err := s.Create(ctx, "third")
			So(err, ShouldBeNil)
			So(s.Count(ctx), ShouldEqual, 2)

			_, err = s.Get(ctx, second)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, err = s.Get(ctx, first)
			So(err, ShouldBeNil)
			_, err = s.Get(ctx, third)
			So(err, ShouldBeNil)
		})

		Convey("Idle sessions expire", func() {
			id, _ := s.Create(ctx, "idle")
			clock.Advance(2 * time.Hour)

			_, err := s.Get(ctx, id)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Sweep removes every expired session", func() {
			_, _ = s.Create(ctx, "a")
			_, _ = s.Create(ctx, "b")
			clock.Advance(90 * time.Minute)
			So(s.Sweep(), ShouldEqual, 2)
			So(s.Count(ctx), ShouldEqual, 0)
		})

		Convey("A closed store refuses new sessions", func() {
			So(s.Close(), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
			_, err := s.Create(ctx, "late")
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}
