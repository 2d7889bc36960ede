package color

import (
	"testing"

	"github.com/reelbox/reelbox/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestForEvent(t *testing.T) {
	Convey("Lifecycle events should be colored by outcome", t, func() {
		So(ForEvent(player.Started), ShouldEqual, Green)
		So(ForEvent(player.Restarted), ShouldEqual, Cyan)
		So(ForEvent(player.RestartFailed), ShouldEqual, Red)
		So(ForEvent(player.RestartAbandoned), ShouldEqual, Yellow)
		So(ForEvent(player.EndOfStream), ShouldEqual, Yellow)
	})

	Convey("States should be colored by activity", t, func() {
		So(ForState(player.Playing), ShouldEqual, Green)
		So(ForState(player.Stopping), ShouldEqual, Yellow)
		So(ForState(player.Idle), ShouldEqual, Blue)
	})
}
