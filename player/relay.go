package player

import (
	"sync/atomic"

	"github.com/reelbox/reelbox/decoder"
	"github.com/reelbox/reelbox/sink"
)

// relay forwards decoded frames to the sinks. It runs on the decoder goroutine and
// never touches the playback lock or the session state; its buffer is fixed at Init.
type relay struct {
	buffer  []byte
	display sink.Sink
	audio   sink.Sink

	video     atomic.Uint64
	sound     atomic.Uint64
	truncated atomic.Uint64
}

func newRelay(buffer []byte, display, audio sink.Sink) *relay {
	return &relay{buffer: buffer, display: display, audio: audio}
}

func (r *relay) onVideo(frame decoder.Frame) {
	n := copy(r.buffer, frame.Data)
	if n < len(frame.Data) {
		r.truncated.Add(1)
	}
	r.video.Add(1)

	frame.Data = r.buffer[:n]
	r.display.Present(frame)
}

func (r *relay) onAudio(frame decoder.Frame) {
	r.sound.Add(1)
	r.audio.Present(frame)
}
