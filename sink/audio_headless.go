//go:build headless

package sink

import (
	"sync"

	"github.com/reelbox/reelbox/decoder"
)

// AudioBackend names the sound output compiled into this build.
const AudioBackend = "none (headless)"

// Audio discards PCM on builds without a sound card, counting what it would have played.
type Audio struct {
	mu      sync.Mutex
	frames  int
	dropped int
	closed  bool
}

// NewAudio returns a headless audio sink.
func NewAudio() *Audio {
	return &Audio{}
}

// Present implements Sink.
func (a *Audio) Present(decoder.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.dropped++
		return
	}
	a.frames++
}

// Dropped returns the number of frames received after Close.
func (a *Audio) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Close marks the sink closed.
func (a *Audio) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
