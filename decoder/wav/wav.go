// Package wav is an audio-only decoder engine for PCM WAV clips.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/reelbox/reelbox/decoder"
	"github.com/spf13/afero"
)

// chunkDuration is the amount of audio delivered per frame.
const chunkDuration = 20 * time.Millisecond

// Engine decodes WAV files from an afero filesystem and paces them in real time.
type Engine struct {
	decoder.Worker
	fs afero.Fs

	// sleep is replaced in tests to run sessions faster than real time.
	sleep func(d time.Duration, stop <-chan struct{}) bool
}

// New returns a WAV engine reading clips from fs.
func New(fs afero.Fs) *Engine {
	return &Engine{fs: fs, sleep: pause}
}

// Start opens and validates the clip synchronously, then decodes it on the session goroutine.
func (e *Engine) Start(path string) error {
	f, err := e.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		_ = f.Close()
		return fmt.Errorf("%w: %s is not a valid wav file", decoder.ErrUnsupported, path)
	}
	d.ReadInfo()
	if err := d.Err(); err != nil {
		_ = f.Close()
		return fmt.Errorf("read wav header: %w", err)
	}

	format := d.Format()
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 {
		_ = f.Close()
		return fmt.Errorf("%w: %s has no usable format", decoder.ErrUnsupported, path)
	}
	bitDepth := int(d.BitDepth)

	err = e.Run(path, func(stop <-chan struct{}) error {
		defer f.Close()
		return e.decode(d, format, bitDepth, stop)
	})
	if err != nil {
		_ = f.Close()
	}
	return err
}

func (e *Engine) decode(d *wav.Decoder, format *audio.Format, bitDepth int, stop <-chan struct{}) error {
	cb := e.Config().Callbacks

	samplesPerChunk := format.SampleRate * format.NumChannels * int(chunkDuration/time.Millisecond) / 1000
	if samplesPerChunk < format.NumChannels {
		samplesPerChunk = format.NumChannels
	}

	buf := &audio.IntBuffer{Data: make([]int, samplesPerChunk), Format: format}
	out := make([]byte, samplesPerChunk*2)

	var (
		index int
		pts   time.Duration
	)
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := d.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if n == 0 {
			return nil
		}

		pcm := toInt16LE(out, buf.Data[:n], bitDepth)
		if cb.Audio != nil {
			cb.Audio(decoder.Frame{
				Kind:       decoder.Audio,
				Index:      index,
				PTS:        pts,
				Data:       pcm,
				SampleRate: format.SampleRate,
				Channels:   format.NumChannels,
			})
		}

		frames := n / format.NumChannels
		dur := time.Duration(frames) * time.Second / time.Duration(format.SampleRate)
		index++
		pts += dur

		if !e.sleep(dur, stop) {
			return nil
		}
	}
}

// toInt16LE packs samples of the given bit depth as signed 16-bit little-endian PCM into dst.
func toInt16LE(dst []byte, samples []int, bitDepth int) []byte {
	dst = dst[:len(samples)*2]
	for i, s := range samples {
		switch {
		case bitDepth == 8:
			s = (s - 128) << 8
		case bitDepth > 16:
			s >>= bitDepth - 16
		}
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(s)))
	}
	return dst
}

// pause waits for d or until stop is closed; it reports whether the full delay elapsed.
func pause(d time.Duration, stop <-chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-stop:
		return false
	}
}

var _ decoder.Engine = (*Engine)(nil)
