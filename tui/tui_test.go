package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type fakePlayer struct {
	status player.Status
	played []string
	stops  int
}

func (f *fakePlayer) Play(_ context.Context, path string) error {
	f.played = append(f.played, path)
	f.status.State, f.status.Path = player.Playing, path
	return nil
}

func (f *fakePlayer) Stop(context.Context) error {
	f.stops++
	f.status.State = player.Idle
	return nil
}

func (f *fakePlayer) SetLoop(enabled bool)  { f.status.Loop = enabled }
func (f *fakePlayer) Status() player.Status { return f.status }

type fakeLibrary []storage.Entry

func (f fakeLibrary) Clips(...string) ([]storage.Entry, error) { return f, nil }

func press(b *statefulBubble, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := b.Update(msg)
	return cmd
}

// drain runs cmd and feeds the resulting messages back, skipping timers.
func drain(b *statefulBubble, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				if m, ok := c().(commandMsg); ok {
					b.Update(m)
				}
			}
		}
	case commandMsg, clipsMsg:
		b.Update(msg)
	}
}

func TestBubble(t *testing.T) {
	Convey("Given the status view with two clips", t, func() {
		viper.Set(key.IconsVariant, "plain")
		p := &fakePlayer{status: player.Status{State: player.Idle, Loop: true}}
		b := newBubble(&Options{
			Player:  p,
			Library: fakeLibrary{{Name: "intro.vid", Path: "/intro.vid"}, {Name: "rain.wav", Path: "/rain.wav"}},
		})
		b.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
		drain(b, b.loadClips())

		So(b.state, ShouldEqual, clipsState)
		So(b.clipsC.Items(), ShouldHaveLength, 2)

		Convey("enter should play the selected clip", func() {
			drain(b, press(b, "enter"))
			So(p.played, ShouldResemble, []string{"/intro.vid"})
			So(b.View(), ShouldContainSubstring, "playing /intro.vid")

			Convey("s should stop it and r should replay it", func() {
				drain(b, press(b, "s"))
				So(p.stops, ShouldEqual, 1)

				drain(b, press(b, "r"))
				So(p.played, ShouldResemble, []string{"/intro.vid", "/intro.vid"})
			})
		})

		Convey("l should toggle looping", func() {
			press(b, "l")
			So(p.status.Loop, ShouldBeFalse)
			press(b, "l")
			So(p.status.Loop, ShouldBeTrue)
		})

		Convey("l should toggle from the live loop state", func() {
			p.SetLoop(false)
			press(b, "l")
			So(p.status.Loop, ShouldBeTrue)
		})

		Convey("q should quit", func() {
			cmd := press(b, "q")
			So(cmd, ShouldNotBeNil)
			_, ok := cmd().(tea.QuitMsg)
			So(ok, ShouldBeTrue)
		})

		Convey("errors should switch to the error view until esc", func() {
			b.Update(errors.New("volume gone"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "volume gone")

			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, clipsState)
		})

		Convey("esc should return to the view the error interrupted", func() {
			b.setState(loadingState)
			b.Update(errors.New("volume gone"))
			b.Update(errors.New("still gone"))
			So(len(b.statesHistory), ShouldEqual, 1)

			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, loadingState)
			So(b.lastError, ShouldBeNil)
		})

		Convey("events should show up as notifications", func() {
			_, cmd := b.Update(eventMsg(player.Event{Kind: player.Restarted, Path: "/intro.vid", Attempt: 1}))
			So(cmd, ShouldNotBeNil)
			So(b.notifier.Current(), ShouldBeEmpty)

			b.Update(cmd())
			So(b.notifier.Current(), ShouldEqual, "Looped /intro.vid (attempt 1)")
		})
	})
}
