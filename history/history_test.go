package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeSubscriber struct {
	fn player.EventCallback
}

func (f *fakeSubscriber) Subscribe(fn player.EventCallback) func() {
	f.fn = fn
	return func() { f.fn = nil }
}

func TestHistory(t *testing.T) {
	Convey("Given a clip that was started and looped", t, func() {
		const path = "/loops/rain.vid"
		So(Remove(path), ShouldBeNil)

		first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		So(Record(player.Event{Kind: player.Started, Path: path, Time: first}), ShouldBeNil)
		So(Record(player.Event{Kind: player.EndOfStream, Path: path, Time: first.Add(time.Minute)}), ShouldBeNil)
		So(Record(player.Event{Kind: player.Restarted, Path: path, Time: first.Add(time.Minute)}), ShouldBeNil)
		So(Record(player.Event{Kind: player.RestartFailed, Path: path, Err: errors.New("fault")}), ShouldBeNil)

		Convey("Then the record should count plays, loops and failures", func() {
			clips, err := Get()
			So(err, ShouldBeNil)

			clip := clips[path]
			So(clip, ShouldNotBeNil)
			So(clip.Plays, ShouldEqual, 1)
			So(clip.Restarts, ShouldEqual, 1)
			So(clip.Failures, ShouldEqual, 1)
			So(clip.LastPlayed.Equal(first.Add(time.Minute)), ShouldBeTrue)
			So(clip.String(), ShouldEqual, "/loops/rain.vid : 1 plays, 1 loops")
		})

		Convey("Sorted should put the latest clip first", func() {
			So(Record(player.Event{Kind: player.Started, Path: "/intro.vid", Time: first.Add(time.Hour)}), ShouldBeNil)

			clips, err := Sorted()
			So(err, ShouldBeNil)
			So(len(clips), ShouldBeGreaterThanOrEqualTo, 2)
			So(clips[0].Path, ShouldEqual, "/intro.vid")
		})

		Convey("Track should record events from a subscriber", func() {
			sub := &fakeSubscriber{}
			untrack := Track(sub, nil)
			sub.fn(player.Event{Kind: player.Started, Path: path, Time: first.Add(2 * time.Hour)})
			untrack()

			clips, err := Get()
			So(err, ShouldBeNil)
			So(clips[path].Plays, ShouldEqual, 2)
			So(sub.fn, ShouldBeNil)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given a saved record", t, func() {
		So(Record(player.Event{Kind: player.Started, Path: "/intro.vid", Time: time.Now()}), ShouldBeNil)

		Convey("Only the history file should remain next to it", func() {
			entries, err := filesystem.API().ReadDir(filepath.Dir(where.History()))
			So(err, ShouldBeNil)

			names := lo.Map(entries, func(e os.FileInfo, _ int) string { return e.Name() })
			So(names, ShouldContain, filepath.Base(where.History()))
			So(lo.CountBy(names, func(n string) bool {
				return strings.HasPrefix(n, filepath.Base(where.History())+".")
			}), ShouldEqual, 0)
		})

		Convey("A write cut short should keep the previous history", func() {
			before, err := filesystem.API().ReadFile(where.History())
			So(err, ShouldBeNil)

			w, err := store{}.OpenFile(where.History(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("{trunc"))
			So(err, ShouldBeNil)

			after, err := filesystem.API().ReadFile(where.History())
			So(err, ShouldBeNil)
			So(string(after), ShouldEqual, string(before))

			// drop the temp file as a crash would leave it, without the rename
			pending := w.(*replaceOnClose)
			So(pending.File.Close(), ShouldBeNil)
			So(filesystem.API().Remove(pending.Name()), ShouldBeNil)
		})
	})
}
