package ui

import (
	"errors"
	"testing"

	"github.com/reelbox/reelbox/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("A notification should be appended to the last line", func() {
			So(m.Update(Notify("Looped /a.vid")()), ShouldNotBeNil)
			So(m.View("status\nhelp"), ShouldContainSubstring, "help  \033[90mLooped /a.vid")

			Convey("and cleared by its own timer only", func() {
				m.Update(ClearNotificationMsg{})
				So(m.Current(), ShouldEqual, "Looped /a.vid")

				m.Update(ClearNotificationMsg{at: m.notifiedAt})
				So(m.Current(), ShouldBeEmpty)
				So(m.View("status"), ShouldEqual, "status")
			})
		})

		Convey("Events should be described for humans", func() {
			So(Describe(player.Event{Kind: player.Restarted, Path: "/a.vid", Attempt: 2}), ShouldEqual, "Looped /a.vid (attempt 2)")
			So(Describe(player.Event{Kind: player.RestartFailed, Path: "/a.vid", Err: errors.New("fault")}), ShouldContainSubstring, "fault")
		})
	})
}
