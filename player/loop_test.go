package player

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoopRestart(t *testing.T) {
	Convey("Given a clip playing with loop armed", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip)
		c := New(engine, store, fastOptions()...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()

		events := &recorder{}
		c.Subscribe(events.record)

		So(c.Play(context.Background(), clip), ShouldBeNil)
		So(c.IsPlaying(), ShouldBeTrue)

		started := func() int {
			s, _, _, _ := engine.snapshot()
			return len(s)
		}

		Convey("End of stream should restart the same clip after the settle delay", func() {
			engine.finish()

			So(eventually(func() bool { return started() == 2 }), ShouldBeTrue)
			So(eventually(c.IsPlaying), ShouldBeTrue)

			paths, _, _, _ := engine.snapshot()
			So(paths, ShouldResemble, []string{clip, clip})
			So(eventually(func() bool { return events.has(Restarted) }), ShouldBeTrue)
			So(events.has(EndOfStream), ShouldBeTrue)

			stats := c.Stats()
			So(stats.RestartEpisodes, ShouldEqual, 1)
			So(stats.RestartAttempts, ShouldEqual, 1)
		})

		Convey("End of stream should mark the player idle before any restart", func() {
			c.opts.restartSettle = 200 * time.Millisecond
			engine.finish()
			So(c.Status().State, ShouldEqual, Idle)
		})

		Convey("A decoder that keeps failing should be tried exactly twice", func() {
			engine.set(func(f *fakeEngine) { f.startErr = errHardware })
			engine.finish()

			So(eventually(func() bool { return events.has(RestartFailed) }), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)

			So(started(), ShouldEqual, 1+DefaultRestartAttempts)
			So(c.IsPlaying(), ShouldBeFalse)

			stats := c.Stats()
			So(stats.RestartAttempts, ShouldEqual, 2)
			So(stats.RestartFailures, ShouldEqual, 1)
		})

		Convey("A decoder that recovers on the second attempt should resume playback", func() {
			c.opts.retrySettle = 200 * time.Millisecond
			engine.set(func(f *fakeEngine) { f.startErr = errHardware })
			c.Subscribe(func(e Event) {
				if e.Kind == EndOfStream {
					// let the first attempt fail, then clear the fault
					go func() {
						eventually(func() bool { return started() == 2 })
						engine.set(func(f *fakeEngine) { f.startErr = nil })
					}()
				}
			})
			engine.finish()

			So(eventually(func() bool { return events.has(Restarted) }), ShouldBeTrue)
			So(c.IsPlaying(), ShouldBeTrue)
		})

		Convey("Stop during the settle delay should cancel the restart", func() {
			c.opts.restartSettle = 100 * time.Millisecond
			engine.finish()
			So(c.Stop(context.Background()), ShouldBeNil)

			So(eventually(func() bool { return events.has(RestartAbandoned) }), ShouldBeTrue)
			So(started(), ShouldEqual, 1)
			So(c.IsPlaying(), ShouldBeFalse)
		})

		Convey("Play during the settle delay should win over the restart", func() {
			store.clips[other] = true
			c.opts.restartSettle = 100 * time.Millisecond
			engine.finish()
			So(c.Play(context.Background(), other), ShouldBeNil)

			So(eventually(func() bool { return events.has(RestartAbandoned) }), ShouldBeTrue)
			So(c.Status().Path, ShouldEqual, other)
		})

		Convey("An end of stream raced by a play of another clip should not touch the new session", func() {
			store.clips[other] = true
			engine.set(func(f *fakeEngine) { f.endingOnStop = true })

			So(c.Play(context.Background(), other), ShouldBeNil)
			time.Sleep(50 * time.Millisecond)

			status := c.Status()
			So(status.State, ShouldEqual, Playing)
			So(status.Path, ShouldEqual, other)

			paths, _, _, _ := engine.snapshot()
			So(paths, ShouldResemble, []string{clip, other})
			So(events.has(EndOfStream), ShouldBeFalse)
			So(c.Stats().RestartEpisodes, ShouldEqual, 0)
		})

		Convey("Disabling loop should prevent the restart", func() {
			c.SetLoop(false)
			engine.finish()

			So(eventually(func() bool { return events.has(EndOfStream) }), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)
			So(started(), ShouldEqual, 1)
			So(c.Stats().RestartEpisodes, ShouldEqual, 0)
		})

		Convey("A clip removed from the volume should not be restarted", func() {
			store.remove(clip)
			engine.finish()

			So(eventually(func() bool { return events.has(RestartAbandoned) }), ShouldBeTrue)
			So(started(), ShouldEqual, 1)

			e, _ := events.find(RestartAbandoned)
			So(errors.Is(e.Err, ErrNotFound), ShouldBeTrue)
		})

		Convey("A restart that cannot take the playback lock should give up as busy", func() {
			So(c.lock.acquire(context.Background()), ShouldBeNil)
			defer c.lock.release()

			engine.finish()

			So(eventually(func() bool { return events.has(RestartAbandoned) }), ShouldBeTrue)
			e, _ := events.find(RestartAbandoned)
			So(errors.Is(e.Err, ErrBusy), ShouldBeTrue)
			So(e.Path, ShouldEqual, clip)
			So(started(), ShouldEqual, 1)
			So(c.IsPlaying(), ShouldBeFalse)
			So(c.Stats().BusyRejections, ShouldEqual, 1)
		})

		Convey("Close should wait out a pending restart", func() {
			c.opts.restartSettle = time.Second
			engine.finish()

			begin := time.Now()
			c.Close()
			So(time.Since(begin), ShouldBeLessThan, 500*time.Millisecond)
			So(started(), ShouldEqual, 1)
			So(c.Stats().RestartEpisodes, ShouldEqual, 1)
		})
	})
}
