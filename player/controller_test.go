package player

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reelbox/reelbox/decoder"
	"github.com/reelbox/reelbox/sink"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	clip    = "/media/clip.vid"
	other   = "/media/other.vid"
	missing = "/media/missing.vid"
)

func TestValidatePath(t *testing.T) {
	Convey("ValidatePath", t, func() {
		So(ValidatePath(clip), ShouldBeNil)
		So(ValidatePath("/"+strings.Repeat("a", MaxPathLength-1)), ShouldBeNil)

		for _, bad := range []string{"", "   ", "/" + strings.Repeat("a", MaxPathLength), "/a\nb", "/a\x00b", "/a\rb"} {
			So(errors.Is(ValidatePath(bad), ErrInvalidArgument), ShouldBeTrue)
		}
	})
}

func TestInit(t *testing.T) {
	Convey("Given a controller that is not initialized", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip)
		c := New(engine, store, fastOptions()...)
		defer c.Close()

		Convey("Play and Stop should report it", func() {
			So(errors.Is(c.Play(context.Background(), clip), ErrNotInitialized), ShouldBeTrue)
			So(errors.Is(c.Stop(context.Background()), ErrNotInitialized), ShouldBeTrue)
			So(c.Status().State, ShouldEqual, Uninitialized)
		})

		Convey("Init should open the engine once", func() {
			So(c.Init(), ShouldBeNil)
			So(c.Init(), ShouldBeNil)

			_, _, opens, _ := engine.snapshot()
			So(opens, ShouldEqual, 1)
			So(engine.cfg.BufferSize, ShouldEqual, 64)
			So(engine.cfg.CoreHint, ShouldEqual, DefaultCoreHint)
			So(c.Status().State, ShouldEqual, Idle)
			So(c.Status().BufferSize, ShouldEqual, 64)
		})

		Convey("Init should reject unusable buffer sizes", func() {
			for _, size := range []int{0, -1, MaxBufferSize + 1} {
				c := New(engine, store, WithBufferSize(size))
				So(errors.Is(c.Init(), ErrResourceExhausted), ShouldBeTrue)
				c.Close()
			}
		})

		Convey("Init should fail when storage is not ready", func() {
			store.readyErr = errors.New("no card")
			err := c.Init()
			So(errors.Is(err, ErrInit), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "no card")
			So(c.Status().State, ShouldEqual, Uninitialized)
		})

		Convey("Init should fail when the engine cannot open", func() {
			engine.openErr = errHardware
			err := c.Init()
			So(errors.Is(err, ErrInit), ShouldBeTrue)
			So(errors.Is(err, errHardware), ShouldBeTrue)

			Convey("and succeed once the fault clears", func() {
				engine.set(func(f *fakeEngine) { f.openErr = nil })
				So(c.Init(), ShouldBeNil)
			})
		})
	})
}

func TestPlay(t *testing.T) {
	Convey("Given an initialized controller", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip, other)
		c := New(engine, store, fastOptions()...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()

		events := &recorder{}
		c.Subscribe(events.record)
		ctx := context.Background()

		Convey("Invalid paths should be rejected without touching storage or the engine", func() {
			So(errors.Is(c.Play(ctx, ""), ErrInvalidArgument), ShouldBeTrue)
			So(errors.Is(c.Play(ctx, "/"+strings.Repeat("x", MaxPathLength)), ErrInvalidArgument), ShouldBeTrue)

			started, _, _, _ := engine.snapshot()
			So(started, ShouldBeEmpty)
			So(store.probeCount(), ShouldEqual, 0)
			So(c.Stats().LockAcquisitions, ShouldEqual, 0)
		})

		Convey("Playing an existing clip should start the engine", func() {
			So(c.Play(ctx, clip), ShouldBeNil)
			So(c.IsPlaying(), ShouldBeTrue)

			status := c.Status()
			So(status.State, ShouldEqual, Playing)
			So(status.Path, ShouldEqual, clip)
			So(status.Session, ShouldEqual, 1)
			So(eventually(func() bool { return events.has(Started) }), ShouldBeTrue)

			Convey("Playing another clip should stop the first one", func() {
				So(c.Play(ctx, other), ShouldBeNil)

				started, stops, _, _ := engine.snapshot()
				So(started, ShouldResemble, []string{clip, other})
				So(stops, ShouldEqual, 1)
				So(c.Status().Path, ShouldEqual, other)
				So(eventually(func() bool { return events.has(Stopped) }), ShouldBeTrue)
			})

			Convey("A missing clip should leave the running one alone", func() {
				So(errors.Is(c.Play(ctx, missing), ErrNotFound), ShouldBeTrue)
				So(c.IsPlaying(), ShouldBeTrue)
				So(c.Status().Path, ShouldEqual, clip)

				_, stops, _, _ := engine.snapshot()
				So(stops, ShouldEqual, 0)
			})

			Convey("A failing stop of the previous clip should not prevent the new one", func() {
				engine.set(func(f *fakeEngine) { f.stopErr = errHardware })
				So(c.Play(ctx, other), ShouldBeNil)
				So(c.IsPlaying(), ShouldBeTrue)
			})
		})

		Convey("A missing clip should return NotFound and leave the player idle", func() {
			So(errors.Is(c.Play(ctx, missing), ErrNotFound), ShouldBeTrue)
			So(c.IsPlaying(), ShouldBeFalse)

			started, _, _, _ := engine.snapshot()
			So(started, ShouldBeEmpty)
		})

		Convey("A failing engine start should return StartFailed and stay idle", func() {
			engine.set(func(f *fakeEngine) { f.startErr = errHardware })

			err := c.Play(ctx, clip)
			So(errors.Is(err, ErrStartFailed), ShouldBeTrue)
			So(errors.Is(err, errHardware), ShouldBeTrue)
			So(c.IsPlaying(), ShouldBeFalse)
		})
	})
}

func TestStop(t *testing.T) {
	Convey("Given an initialized controller", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip)
		c := New(engine, store, fastOptions()...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()
		ctx := context.Background()

		Convey("Stopping while idle should succeed without an engine call", func() {
			So(c.Stop(ctx), ShouldBeNil)
			So(c.Stop(ctx), ShouldBeNil)

			_, stops, _, _ := engine.snapshot()
			So(stops, ShouldEqual, 0)
		})

		Convey("Stopping a running clip should stop the engine", func() {
			So(c.Play(ctx, clip), ShouldBeNil)
			So(c.Stop(ctx), ShouldBeNil)
			So(c.IsPlaying(), ShouldBeFalse)

			_, stops, _, _ := engine.snapshot()
			So(stops, ShouldEqual, 1)
		})

		Convey("A failing engine stop should still leave the player idle", func() {
			So(c.Play(ctx, clip), ShouldBeNil)
			engine.set(func(f *fakeEngine) { f.stopErr = errHardware })

			err := c.Stop(ctx)
			So(errors.Is(err, ErrStopFailed), ShouldBeTrue)
			So(errors.Is(err, errHardware), ShouldBeTrue)
			So(c.IsPlaying(), ShouldBeFalse)
			So(c.Status().State, ShouldEqual, Idle)
		})
	})
}

func TestBusy(t *testing.T) {
	Convey("Given a transition that holds the lock past the timeout", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip, other)
		c := New(engine, store, fastOptions(WithLockTimeout(50*time.Millisecond))...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()

		gate := make(chan struct{})
		engine.set(func(f *fakeEngine) { f.startGate = gate })

		first := make(chan error, 1)
		go func() { first <- c.Play(context.Background(), clip) }()
		<-engine.entered
		defer func() {
			close(gate)
			<-first
		}()

		Convey("A concurrent play should return Busy within a bounded time", func() {
			begin := time.Now()
			err := c.Play(context.Background(), other)
			elapsed := time.Since(begin)

			So(errors.Is(err, ErrBusy), ShouldBeTrue)
			So(elapsed, ShouldBeLessThan, time.Second)
			So(c.Stats().BusyRejections, ShouldEqual, 1)

			Convey("A concurrent stop should too", func() {
				So(errors.Is(c.Stop(context.Background()), ErrBusy), ShouldBeTrue)
			})
		})

		Convey("A cancelled caller should get its own context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(errors.Is(c.Play(ctx, other), context.Canceled), ShouldBeTrue)
			So(c.Stats().BusyRejections, ShouldEqual, 0)
		})

		Convey("A caller whose deadline ends first should not count as busy", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			So(errors.Is(c.Stop(ctx), context.DeadlineExceeded), ShouldBeTrue)
			So(c.Stats().BusyRejections, ShouldEqual, 0)
		})
	})
}

func TestMutualExclusion(t *testing.T) {
	Convey("Given many callers issuing play and stop concurrently", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip, other)
		c := New(engine, store, fastOptions(WithLockTimeout(10*time.Second), WithStopSettle(0))...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()

		const callers, calls = 8, 25

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < calls; j++ {
					switch (i + j) % 3 {
					case 0:
						_ = c.Play(context.Background(), clip)
					case 1:
						_ = c.Play(context.Background(), other)
					default:
						_ = c.Stop(context.Background())
					}
				}
			}(i)
		}
		wg.Wait()

		Convey("The engine should never be entered concurrently", func() {
			So(engine.maxInFlight.Load(), ShouldEqual, 1)
		})

		Convey("Every call should have taken the lock exactly once", func() {
			stats := c.Stats()
			So(stats.LockAcquisitions, ShouldEqual, callers*calls)
			So(stats.BusyRejections, ShouldEqual, 0)
		})
	})
}

func TestRelay(t *testing.T) {
	Convey("Given a controller with a display sink", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip)
		display := sink.NewDisplay()
		c := New(engine, store, fastOptions(WithBufferSize(4), WithDisplay(display))...)
		So(c.Init(), ShouldBeNil)
		defer c.Close()

		Convey("Video frames should be copied into the decode buffer", func() {
			engine.emit(decoder.Frame{Kind: decoder.Video, Index: 0, Data: []byte{1, 2, 3}})
			engine.emit(decoder.Frame{Kind: decoder.Video, Index: 1, Data: []byte{1, 2, 3, 4, 5, 6}})
			engine.emit(decoder.Frame{Kind: decoder.Audio, Data: []byte{0, 0}})

			So(display.Last(), ShouldResemble, []byte{1, 2, 3, 4})
			So(display.Stats().Frames, ShouldEqual, 2)

			status := c.Status()
			So(status.VideoFrames, ShouldEqual, 2)
			So(status.AudioFrames, ShouldEqual, 1)
			So(status.TruncatedFrames, ShouldEqual, 1)
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given a playing controller", t, func() {
		engine, store := newFakeEngine(), newFakeStore(clip)
		c := New(engine, store, fastOptions()...)
		So(c.Init(), ShouldBeNil)
		So(c.Play(context.Background(), clip), ShouldBeNil)

		Convey("Close should stop and release the engine", func() {
			c.Close()

			_, stops, _, closes := engine.snapshot()
			So(stops, ShouldEqual, 1)
			So(closes, ShouldEqual, 1)
			So(c.Status().State, ShouldEqual, Uninitialized)
			So(errors.Is(c.Play(context.Background(), clip), ErrNotInitialized), ShouldBeTrue)

			Convey("Closing again should be a no-op", func() {
				c.Close()
				_, _, _, closes := engine.snapshot()
				So(closes, ShouldEqual, 1)
			})

			Convey("The controller should be reusable after a new Init", func() {
				So(c.Init(), ShouldBeNil)
				So(c.Play(context.Background(), clip), ShouldBeNil)
				So(c.IsPlaying(), ShouldBeTrue)
				c.Close()
			})
		})

		Convey("Close should complete even when the engine cannot stop", func() {
			engine.set(func(f *fakeEngine) { f.stopErr = errHardware })
			c.Close()
			So(c.Status().State, ShouldEqual, Uninitialized)
		})
	})
}
