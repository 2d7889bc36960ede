//go:build !headless

package sink

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/reelbox/reelbox/decoder"
)

// AudioBackend names the sound output compiled into this build.
const AudioBackend = "oto"

// maxQueued bounds the PCM waiting for the sound card, roughly half a second of 48kHz stereo.
const maxQueued = 48000 * 2 * 2 / 2

// Audio plays 16-bit PCM frames through oto. The output context is created on the
// first frame and keeps that frame's format; frames in any other format are dropped.
type Audio struct {
	mu         sync.Mutex
	ctx        *oto.Context
	player     *oto.Player
	sampleRate int
	channels   int
	queue      []byte
	dropped    int
	closed     bool
}

// NewAudio returns an audio sink; no device is opened until the first frame.
func NewAudio() *Audio {
	return &Audio{}
}

// Present implements Sink.
func (a *Audio) Present(frame decoder.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	if a.ctx == nil {
		if err := a.open(frame.SampleRate, frame.Channels); err != nil {
			logger.WithError(err).Errorf("failed to open audio output")
			a.closed = true
			return
		}
	}

	if frame.SampleRate != a.sampleRate || frame.Channels != a.channels {
		a.dropped++
		return
	}

	if len(a.queue)+len(frame.Data) > maxQueued {
		a.dropped++
		return
	}
	a.queue = append(a.queue, frame.Data...)
}

// open must be called with a.mu held.
func (a *Audio) open(sampleRate, channels int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return err
	}
	<-ready

	a.ctx = ctx
	a.sampleRate = sampleRate
	a.channels = channels
	a.player = ctx.NewPlayer(a)
	a.player.Play()
	logger.Infof("audio output opened at %d Hz, %d channels", sampleRate, channels)
	return nil
}

// Read feeds the oto player from the queue, padding with silence on underrun.
func (a *Audio) Read(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := copy(p, a.queue)
	a.queue = a.queue[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Dropped returns the number of frames discarded because of overflow or format mismatch.
func (a *Audio) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Close stops playback. The oto context itself lives until process exit.
func (a *Audio) Close() error {
	a.mu.Lock()
	player := a.player
	a.player = nil
	a.closed = true
	a.queue = nil
	a.mu.Unlock()

	if player != nil {
		return player.Close()
	}
	return nil
}
