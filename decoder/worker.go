package decoder

import (
	"runtime"
	"sync"

	"github.com/reelbox/reelbox/log"
)

var logger = log.For("decoder")

// DecodeFunc decodes one session. It must return promptly once stop is closed.
// Returning nil or an error both end the session; only a session that was not
// stopped produces an end-of-stream notification.
type DecodeFunc func(stop <-chan struct{}) error

// Worker runs decode sessions one at a time on a dedicated goroutine and
// implements the open/stop/close bookkeeping shared by the built-in engines.
type Worker struct {
	mu     sync.Mutex
	cfg    Config
	opened bool
	stop   chan struct{}
	done   chan struct{}
	// last is closed once the latest session goroutine, end of stream included, has exited.
	last chan struct{}
}

// Open stores the configuration. Reopening an open worker replaces its callbacks.
func (w *Worker) Open(cfg Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cfg = cfg
	w.opened = true
	return nil
}

// Config returns the configuration passed to Open.
func (w *Worker) Config() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// Active reports whether a session is running.
func (w *Worker) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done != nil
}

// Run starts decode on a new session goroutine.
func (w *Worker) Run(name string, decode DecodeFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.opened {
		return ErrNotOpen
	}
	if w.done != nil {
		return ErrActive
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	w.stop, w.done, w.last = stop, done, done
	cfg := w.cfg

	go func() {
		defer close(done)

		if cfg.CoreHint >= 0 {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
		}

		err := decode(stop)

		w.mu.Lock()
		stopped := w.done != done
		if !stopped {
			w.stop, w.done = nil, nil
		}
		w.mu.Unlock()

		if stopped {
			logger.Debugf("session %s stopped", name)
			return
		}
		if err != nil {
			logger.WithError(err).Warnf("session %s ended with decode error", name)
		}
		if cfg.Callbacks.EndOfStream != nil {
			cfg.Callbacks.EndOfStream()
		}
	}()

	return nil
}

// Stop ends the running session and waits for its goroutine to exit. A session
// that already ended on its own may still be delivering end of stream; Stop waits
// for that delivery too. Stopping an idle worker is a no-op.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.opened {
		w.mu.Unlock()
		return ErrNotOpen
	}
	stop, done, last := w.stop, w.done, w.last
	w.stop, w.done, w.last = nil, nil, nil
	w.mu.Unlock()

	if done != nil {
		close(stop)
	}
	if last != nil {
		<-last
	}
	return nil
}

// Close stops any running session and forgets the configuration.
func (w *Worker) Close() error {
	if err := w.Stop(); err != nil && err != ErrNotOpen {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.opened = false
	w.cfg = Config{}
	return nil
}
