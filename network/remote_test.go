package network

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/server"
	"github.com/reelbox/reelbox/storage"
	. "github.com/smartystreets/goconvey/convey"
)

type stubPlayer struct {
	mu      sync.Mutex
	status  player.Status
	playErr error
}

func (s *stubPlayer) Play(_ context.Context, path string) error {
	if err := player.ValidatePath(path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playErr != nil {
		return s.playErr
	}
	s.status.State, s.status.Path = player.Playing, path
	return nil
}

func (s *stubPlayer) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = player.Idle
	return nil
}

func (s *stubPlayer) SetLoop(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Loop = enabled
}

func (s *stubPlayer) Status() player.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubPlayer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playErr = err
}

type stubLibrary struct{}

func (stubLibrary) Clips(...string) ([]storage.Entry, error) {
	return []storage.Entry{{Name: "intro.vid", Path: "/intro.vid"}}, nil
}

func TestRemote(t *testing.T) {
	Convey("Given a remote attached to a control server", t, func() {
		p := &stubPlayer{status: player.Status{State: player.Idle}}
		ts := httptest.NewServer(server.NewRouter(server.NewHandler(p, stubLibrary{})))
		defer ts.Close()

		r := NewRemote(ts.URL)
		ctx := context.Background()

		Convey("Play, SetLoop and Stop should reach the player", func() {
			So(r.Play(ctx, "/intro.vid"), ShouldBeNil)
			So(r.Status().Path, ShouldEqual, "/intro.vid")

			r.SetLoop(true)
			So(p.Status().Loop, ShouldBeTrue)

			So(r.Stop(ctx), ShouldBeNil)
			st, err := r.Fetch(ctx)
			So(err, ShouldBeNil)
			So(st.State, ShouldEqual, player.Idle)
		})

		Convey("Server errors should map back onto the controller's errors", func() {
			p.fail(player.ErrBusy)
			So(errors.Is(r.Play(ctx, "/intro.vid"), player.ErrBusy), ShouldBeTrue)

			p.fail(player.ErrStartFailed)
			So(errors.Is(r.Play(ctx, "/intro.vid"), player.ErrStartFailed), ShouldBeTrue)

			p.fail(nil)
			So(errors.Is(r.Play(ctx, ""), player.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("Clips should list the server's volume", func() {
			clips, err := r.Clips()
			So(err, ShouldBeNil)
			So(clips, ShouldHaveLength, 1)
		})
	})

	Convey("NewRemote should accept bare addresses", t, func() {
		So(NewRemote("127.0.0.1:8080/").base, ShouldEqual, "http://127.0.0.1:8080")
	})
}
