// Package decoder defines the contract between the playback controller and a decoding engine.
//
// An Engine is a single, non-reentrant resource: at most one session is active at a
// time, frames are delivered on the engine's own goroutine, and EndOfStream fires
// exactly once for every session that runs to its natural end. Stopping a session
// never fires EndOfStream, and Stop does not return while an EndOfStream for an
// earlier session is still being delivered.
package decoder

import (
	"errors"
	"time"
)

var (
	// ErrNotOpen is returned when an engine is used before Open or after Close.
	ErrNotOpen = errors.New("engine not open")
	// ErrActive is returned by Start while another session is still running.
	ErrActive = errors.New("engine session already active")
	// ErrUnsupported is returned when no engine can decode a given clip.
	ErrUnsupported = errors.New("unsupported clip format")
)

// Kind distinguishes the two frame streams an engine produces.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (k Kind) String() string {
	switch k {
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return "unknown"
	}
}

// Frame is one decoded unit of media. Data is only valid for the duration of the
// callback it is passed to; receivers that keep it must copy.
type Frame struct {
	Kind  Kind
	Index int
	PTS   time.Duration
	Data  []byte

	// Audio frames carry signed 16-bit little-endian interleaved PCM.
	SampleRate int
	Channels   int
}

// Callbacks are invoked on the engine's goroutine.
type Callbacks struct {
	Video       func(Frame)
	Audio       func(Frame)
	EndOfStream func()
}

// Config is handed to Engine.Open once, before any session starts.
type Config struct {
	// BufferSize is the capacity of the consumer's frame buffer. Engines must not
	// produce video frames larger than this.
	BufferSize int
	// CoreHint is the preferred CPU for the decode worker; negative means no preference.
	CoreHint  int
	Callbacks Callbacks
}

// Engine is the external decoding resource driven by the controller.
type Engine interface {
	Open(cfg Config) error
	Start(path string) error
	Stop() error
	Close() error
}
