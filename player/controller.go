package player

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reelbox/reelbox/decoder"
	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/sink"
	"github.com/reelbox/reelbox/storage"
)

var logger = log.For("player")

// contentLogger is implemented by storage backends able to dump their listing.
type contentLogger interface {
	LogContents()
}

// Controller serializes every transition of a single decoder.Engine.
// Its zero value is not usable; create one with New.
type Controller struct {
	engine decoder.Engine
	store  storage.Accessor
	opts   options

	// lifecycle serializes Init and Close.
	lifecycle sync.Mutex

	// mu guards the fields below. It is only ever held for field access,
	// never across an engine call.
	mu       sync.Mutex
	lock     *opLock
	relay    *relay
	state    State
	path     string
	loop     bool
	session  uint64
	closing  bool
	done     chan struct{}
	episodes sync.WaitGroup

	events   *eventBus
	counters lockCounters

	restartEpisodes atomic.Uint64
	restartAttempts atomic.Uint64
	restartFailures atomic.Uint64
}

// New returns an uninitialized controller driving engine and probing store.
func New(engine decoder.Engine, store storage.Accessor, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.display == nil {
		o.display = sink.Discard
	}
	if o.audio == nil {
		o.audio = sink.Discard
	}

	return &Controller{
		engine: engine,
		store:  store,
		opts:   o,
		loop:   o.loop,
		events: newEventBus(),
	}
}

// Init prepares the controller for playback. Calling it on an initialized
// controller is a no-op.
func (c *Controller) Init() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.lock == nil {
		c.lock = newOpLock(c.opts.lockTimeout, &c.counters)
	}
	initialized := c.state != Uninitialized
	c.mu.Unlock()

	if initialized {
		return nil
	}

	size := c.opts.bufferSize
	if size <= 0 || size > MaxBufferSize {
		return fmt.Errorf("%w: decode buffer of %d bytes, limit is %d", ErrResourceExhausted, size, MaxBufferSize)
	}

	if err := c.store.Ready(); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}

	if c.opts.listOnInit {
		if l, ok := c.store.(contentLogger); ok {
			l.LogContents()
		}
	}

	r := newRelay(make([]byte, size), c.opts.display, c.opts.audio)

	err := c.engine.Open(decoder.Config{
		BufferSize: size,
		CoreHint:   c.opts.coreHint,
		Callbacks: decoder.Callbacks{
			Video:       r.onVideo,
			Audio:       r.onAudio,
			EndOfStream: c.onEndOfStream,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}

	c.mu.Lock()
	c.relay = r
	c.state = Idle
	c.path = ""
	c.closing = false
	c.done = make(chan struct{})
	c.mu.Unlock()

	c.events.start()

	logger.Infof("initialized with %d byte decode buffer, loop %t", size, c.Loop())
	return nil
}

// Play starts the clip at path. A running clip is stopped first.
func (c *Controller) Play(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	lock, done, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer lock.release()

	if !c.store.Exists(path) {
		logger.Warnf("play %s: not found", path)
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if c.IsPlaying() {
		if err := c.stopLocked(); err != nil {
			logger.WithError(err).Warnf("stopping previous clip before %s", path)
		}
		if !settle(c.opts.stopSettle, done) {
			return fmt.Errorf("%w: closing", ErrNotInitialized)
		}
	}

	if err := c.start(path); err != nil {
		logger.WithError(err).Errorf("play %s", path)
		return fmt.Errorf("%w: %w", ErrStartFailed, err)
	}

	logger.Infof("playing %s", path)
	c.events.publish(Event{Kind: Started, Path: path})
	return nil
}

// Stop ends the running clip. The controller is idle afterwards even when the
// engine reports a failure.
func (c *Controller) Stop(ctx context.Context) error {
	lock, _, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer lock.release()

	return c.stopLocked()
}

// Close stops playback, waits for pending restart episodes and releases the
// engine. It is safe to call more than once.
func (c *Controller) Close() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.state == Uninitialized {
		c.lock = nil
		c.mu.Unlock()
		return
	}
	c.closing = true
	close(c.done)
	lock := c.lock
	c.mu.Unlock()

	if err := lock.acquire(context.Background()); err != nil {
		logger.WithError(err).Warnf("close: stopping decoder without the playback lock")
		c.forceStop()
	} else {
		if err := c.stopLocked(); err != nil {
			logger.WithError(err).Warnf("close")
		}
		lock.release()
	}

	c.episodes.Wait()

	if err := c.engine.Close(); err != nil {
		logger.WithError(err).Warnf("close decoder")
	}

	c.mu.Lock()
	c.lock = nil
	c.relay = nil
	c.state = Uninitialized
	c.closing = false
	c.mu.Unlock()

	c.events.stop()
	logger.Infof("closed")
}

// SetLoop arms or disarms the restart at end of stream. Disarming also cancels
// a restart episode that has not started the engine yet.
func (c *Controller) SetLoop(enabled bool) {
	c.mu.Lock()
	c.loop = enabled
	c.mu.Unlock()

	logger.Debugf("loop %t", enabled)
}

// Loop reports whether the restart at end of stream is armed.
func (c *Controller) Loop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loop
}

// IsPlaying reports whether a session is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Playing
}

// Status returns a snapshot of the controller. It never waits for the playback lock.
func (c *Controller) Status() Status {
	c.mu.Lock()
	s := Status{
		State:   c.state,
		Path:    c.path,
		Loop:    c.loop,
		Session: c.session,
	}
	r := c.relay
	c.mu.Unlock()

	if r != nil {
		s.BufferSize = len(r.buffer)
		s.VideoFrames = r.video.Load()
		s.AudioFrames = r.sound.Load()
		s.TruncatedFrames = r.truncated.Load()
	}

	return s
}

// Stats returns the lifetime counters.
func (c *Controller) Stats() Stats {
	return Stats{
		LockAcquisitions: c.counters.acquired.Load(),
		BusyRejections:   c.counters.busy.Load(),
		RestartEpisodes:  c.restartEpisodes.Load(),
		RestartAttempts:  c.restartAttempts.Load(),
		RestartFailures:  c.restartFailures.Load(),
	}
}

// Subscribe registers fn for lifecycle events and returns a function removing it.
// Callbacks run on a dedicated goroutine and may call back into the controller.
func (c *Controller) Subscribe(fn EventCallback) (unsubscribe func()) {
	return c.events.subscribe(fn)
}

// acquire takes the playback lock on behalf of a caller-facing transition.
func (c *Controller) acquire(ctx context.Context) (*opLock, <-chan struct{}, error) {
	c.mu.Lock()
	lock := c.lock
	c.mu.Unlock()

	if lock == nil {
		return nil, nil, ErrNotInitialized
	}

	if err := lock.acquire(ctx); err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	ready := c.state != Uninitialized && !c.closing
	done := c.done
	c.mu.Unlock()

	if !ready {
		lock.release()
		return nil, nil, ErrNotInitialized
	}

	return lock, done, nil
}

// start drives engine.Start for path. The session is marked playing before the
// call so an end of stream arriving before Start returns is not lost.
// Must be called with the playback lock held.
func (c *Controller) start(path string) error {
	c.mu.Lock()
	c.path = path
	c.state = Playing
	c.session++
	c.mu.Unlock()

	if err := c.engine.Start(path); err != nil {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
		return err
	}

	return nil
}

// stopLocked ends the running session. Must be called with the playback lock held.
func (c *Controller) stopLocked() error {
	c.mu.Lock()
	c.session++
	if c.state != Playing {
		c.mu.Unlock()
		return nil
	}
	c.state = Stopping
	path := c.path
	c.mu.Unlock()

	err := c.engine.Stop()

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	c.events.publish(Event{Kind: Stopped, Path: path, Err: err})

	if err != nil {
		logger.WithError(err).Errorf("stop %s", path)
		return fmt.Errorf("%w: %w", ErrStopFailed, err)
	}

	logger.Infof("stopped %s", path)
	return nil
}

// forceStop stops the engine without the playback lock. Only Close uses it, when
// the lock holder does not let go in time.
func (c *Controller) forceStop() {
	c.mu.Lock()
	c.session++
	c.state = Stopping
	c.mu.Unlock()

	if err := c.engine.Stop(); err != nil {
		logger.WithError(err).Warnf("forced stop")
	}

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
}

// settle waits for d, returning false if done is closed first.
func settle(d time.Duration, done <-chan struct{}) bool {
	if d <= 0 {
		select {
		case <-done:
			return false
		default:
			return true
		}
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-done:
		return false
	}
}
