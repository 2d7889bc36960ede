// Package sink implements the consumers of decoded frames: the display panel and the audio output.
//
// Present is called on the decoder's goroutine and must never block it for long;
// sinks that cannot keep up drop data instead.
package sink

import (
	"sync"
	"sync/atomic"

	"github.com/reelbox/reelbox/decoder"
	"github.com/reelbox/reelbox/log"
)

var logger = log.For("sink")

// Sink consumes frames of one kind.
type Sink interface {
	Present(frame decoder.Frame)
}

// Discard drops every frame.
var Discard Sink = discard{}

type discard struct{}

func (discard) Present(decoder.Frame) {}

// DisplayStats is a snapshot of what a Display has shown.
type DisplayStats struct {
	Frames    uint64 `json:"frames"`
	Bytes     uint64 `json:"bytes"`
	LastIndex int    `json:"lastIndex"`
}

// Display stands in for the panel driver: it records what would be pushed to the
// screen and keeps a copy of the latest frame for inspection.
type Display struct {
	frames atomic.Uint64
	bytes  atomic.Uint64

	mu        sync.Mutex
	last      []byte
	lastIndex int
}

// NewDisplay returns an empty display sink.
func NewDisplay() *Display {
	return &Display{lastIndex: -1}
}

// Present implements Sink.
func (d *Display) Present(frame decoder.Frame) {
	d.frames.Add(1)
	d.bytes.Add(uint64(len(frame.Data)))

	d.mu.Lock()
	d.last = append(d.last[:0], frame.Data...)
	d.lastIndex = frame.Index
	d.mu.Unlock()

	logger.Tracef("present frame %d (%d bytes)", frame.Index, len(frame.Data))
}

// Stats returns the running counters.
func (d *Display) Stats() DisplayStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return DisplayStats{
		Frames:    d.frames.Load(),
		Bytes:     d.bytes.Load(),
		LastIndex: d.lastIndex,
	}
}

// Last returns a copy of the most recently presented frame.
func (d *Display) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.last...)
}
