// Package raw is a video decoder engine for headerless clips made of fixed-size,
// already panel-formatted frames stored back to back.
package raw

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/reelbox/reelbox/decoder"
	"github.com/spf13/afero"
)

// Engine streams raw frames from an afero filesystem at a fixed frame rate.
type Engine struct {
	decoder.Worker
	fs        afero.Fs
	frameSize int
	interval  time.Duration
}

// New returns a raw engine. frameSize is the byte size of one frame and fps the playback rate.
func New(fs afero.Fs, frameSize, fps int) *Engine {
	if fps <= 0 {
		fps = 1
	}
	return &Engine{
		fs:        fs,
		frameSize: frameSize,
		interval:  time.Second / time.Duration(fps),
	}
}

// Open rejects configurations whose buffer cannot hold one frame.
func (e *Engine) Open(cfg decoder.Config) error {
	if e.frameSize <= 0 {
		return fmt.Errorf("invalid frame size %d", e.frameSize)
	}
	if cfg.BufferSize < e.frameSize {
		return fmt.Errorf("buffer of %d bytes cannot hold a %d byte frame", cfg.BufferSize, e.frameSize)
	}
	return e.Worker.Open(cfg)
}

// Start validates the clip synchronously and streams it on the session goroutine.
func (e *Engine) Start(path string) error {
	info, err := e.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() < int64(e.frameSize) {
		return fmt.Errorf("%w: %s is shorter than one frame", decoder.ErrUnsupported, path)
	}

	f, err := e.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	err = e.Run(path, func(stop <-chan struct{}) error {
		defer f.Close()
		return e.stream(f, stop)
	})
	if err != nil {
		_ = f.Close()
	}
	return err
}

func (e *Engine) stream(r io.Reader, stop <-chan struct{}) error {
	cb := e.Config().Callbacks
	frame := make([]byte, e.frameSize)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for index := 0; ; index++ {
		if _, err := io.ReadFull(r, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		if cb.Video != nil {
			cb.Video(decoder.Frame{
				Kind:  decoder.Video,
				Index: index,
				PTS:   time.Duration(index) * e.interval,
				Data:  frame,
			})
		}

		select {
		case <-stop:
			return nil
		case <-ticker.C:
		}
	}
}

var _ decoder.Engine = (*Engine)(nil)
