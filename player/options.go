package player

import (
	"time"

	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/sink"
	"github.com/spf13/viper"
)

// MaxBufferSize caps the decode buffer; larger requests fail with ErrResourceExhausted.
const MaxBufferSize = constant.MaxBufferSize

// Defaults mirror the configuration defaults registered in the config package.
// The settle delays cover the decoder's asynchronous hardware teardown, which is
// not synchronized with its Stop and Start calls.
const (
	DefaultBufferSize      = constant.PanelFrameSize
	DefaultCoreHint        = 1
	DefaultLockTimeout     = 500 * time.Millisecond
	DefaultStopSettle      = 300 * time.Millisecond
	DefaultRestartSettle   = 200 * time.Millisecond
	DefaultRetrySettle     = 500 * time.Millisecond
	DefaultRestartAttempts = 2
)

type options struct {
	bufferSize      int
	coreHint        int
	lockTimeout     time.Duration
	stopSettle      time.Duration
	restartSettle   time.Duration
	retrySettle     time.Duration
	restartAttempts int
	loop            bool
	listOnInit      bool
	display         sink.Sink
	audio           sink.Sink
}

func defaultOptions() options {
	return options{
		bufferSize:      DefaultBufferSize,
		coreHint:        DefaultCoreHint,
		lockTimeout:     DefaultLockTimeout,
		stopSettle:      DefaultStopSettle,
		restartSettle:   DefaultRestartSettle,
		retrySettle:     DefaultRetrySettle,
		restartAttempts: DefaultRestartAttempts,
		loop:            true,
		display:         sink.Discard,
		audio:           sink.Discard,
	}
}

// Option customises a Controller.
type Option func(*options)

// WithBufferSize sets the decode buffer capacity in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithCoreHint sets the preferred CPU for the decoder worker.
func WithCoreHint(core int) Option {
	return func(o *options) { o.coreHint = core }
}

// WithLockTimeout bounds how long any transition waits for the playback lock.
// A non-positive timeout falls back to DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			d = DefaultLockTimeout
		}
		o.lockTimeout = d
	}
}

// WithStopSettle sets the pause between stopping a running clip and starting the next.
func WithStopSettle(d time.Duration) Option {
	return func(o *options) { o.stopSettle = nonNegative(d) }
}

// WithRestartSettle sets the pause between end of stream and the first restart attempt.
func WithRestartSettle(d time.Duration) Option {
	return func(o *options) { o.restartSettle = nonNegative(d) }
}

// WithRetrySettle sets the pause before each further restart attempt.
func WithRetrySettle(d time.Duration) Option {
	return func(o *options) { o.retrySettle = nonNegative(d) }
}

// WithRestartAttempts sets the number of start attempts in one restart episode.
func WithRestartAttempts(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.restartAttempts = n
	}
}

// WithLoop arms or disarms looping from the start.
func WithLoop(enabled bool) Option {
	return func(o *options) { o.loop = enabled }
}

// WithListOnInit logs the volume contents during Init when the storage supports it.
func WithListOnInit(enabled bool) Option {
	return func(o *options) { o.listOnInit = enabled }
}

// WithDisplay sets the sink receiving video frames.
func WithDisplay(s sink.Sink) Option {
	return func(o *options) { o.display = s }
}

// WithAudio sets the sink receiving audio frames.
func WithAudio(s sink.Sink) Option {
	return func(o *options) { o.audio = s }
}

// FromConfig applies the player.* and storage.list_on_mount settings from viper.
func FromConfig() Option {
	return func(o *options) {
		for _, opt := range []Option{
			WithBufferSize(viper.GetInt(key.PlayerBufferSize)),
			WithCoreHint(viper.GetInt(key.PlayerCoreHint)),
			WithLockTimeout(viper.GetDuration(key.PlayerLockTimeout)),
			WithStopSettle(viper.GetDuration(key.PlayerStopSettle)),
			WithRestartSettle(viper.GetDuration(key.PlayerRestartSettle)),
			WithRetrySettle(viper.GetDuration(key.PlayerRetrySettle)),
			WithRestartAttempts(viper.GetInt(key.PlayerRestartAttempts)),
			WithLoop(viper.GetBool(key.PlayerLoop)),
			WithListOnInit(viper.GetBool(key.StorageListOnMount)),
		} {
			opt(o)
		}
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
