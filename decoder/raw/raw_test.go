package raw

import (
	"sync"
	"testing"
	"time"

	"github.com/reelbox/reelbox/decoder"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestEngine(t *testing.T) {
	Convey("Given a raw clip of three and a half frames", t, func() {
		fs := afero.NewMemMapFs()
		clip := make([]byte, 3*8+4)
		for i := range clip {
			clip[i] = byte(i / 8)
		}
		lo.Must0(afero.WriteFile(fs, "/intro.raw", clip, 0o644))
		lo.Must0(afero.WriteFile(fs, "/tiny.raw", []byte{1, 2}, 0o644))

		var (
			mu     sync.Mutex
			frames []byte
		)
		eos := make(chan struct{}, 1)
		e := New(fs, 8, 1000)
		So(e.Open(decoder.Config{
			BufferSize: 8,
			CoreHint:   -1,
			Callbacks: decoder.Callbacks{
				Video: func(f decoder.Frame) {
					mu.Lock()
					defer mu.Unlock()
					frames = append(frames, f.Data[0])
				},
				EndOfStream: func() { eos <- struct{}{} },
			},
		}), ShouldBeNil)
		defer e.Close()

		Convey("Playing it should deliver every whole frame then end the stream", func() {
			So(e.Start("/intro.raw"), ShouldBeNil)
			select {
			case <-eos:
			case <-time.After(2 * time.Second):
				So("end of stream", ShouldBeEmpty)
			}

			mu.Lock()
			defer mu.Unlock()
			So(frames, ShouldResemble, []byte{0, 1, 2})
		})

		Convey("A clip shorter than one frame should be rejected up front", func() {
			So(e.Start("/tiny.raw"), ShouldNotBeNil)
		})

		Convey("A missing clip should be rejected up front", func() {
			So(e.Start("/missing.raw"), ShouldNotBeNil)
		})
	})

	Convey("Open should reject a buffer smaller than a frame", t, func() {
		e := New(afero.NewMemMapFs(), 64, 10)
		So(e.Open(decoder.Config{BufferSize: 32}), ShouldNotBeNil)
	})
}
