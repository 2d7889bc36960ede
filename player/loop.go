package player

import (
	"context"
	"fmt"
)

// onEndOfStream runs on the engine goroutine. It must not block and must not
// call back into the engine, so the restart is handed to its own goroutine.
func (c *Controller) onEndOfStream() {
	c.mu.Lock()
	if c.state != Playing {
		// a Stop raced with the natural end; Stop owns the transition
		c.mu.Unlock()
		return
	}
	c.state = Idle
	path, session, done := c.path, c.session, c.done
	rearm := c.loop && !c.closing
	if rearm {
		c.episodes.Add(1)
	}
	c.mu.Unlock()

	logger.Infof("end of stream: %s", path)
	c.events.publish(Event{Kind: EndOfStream, Path: path})

	if rearm {
		go c.restart(path, session, done)
	}
}

// restart is one loop-restart episode: a settle delay, then a bounded number of
// start attempts for the clip that just ended. Failures are reported through the
// log and the event bus only.
func (c *Controller) restart(path string, session uint64, done <-chan struct{}) {
	defer c.episodes.Done()
	c.restartEpisodes.Add(1)

	if !settle(c.opts.restartSettle, done) {
		c.abandon(path, "controller closing", nil)
		return
	}

	c.mu.Lock()
	lock := c.lock
	c.mu.Unlock()

	if lock == nil {
		c.abandon(path, "controller closed", ErrNotInitialized)
		return
	}

	if err := lock.acquire(context.Background()); err != nil {
		c.abandon(path, "playback lock unavailable", err)
		return
	}
	defer lock.release()

	if reason := c.superseded(session); reason != "" {
		c.abandon(path, reason, nil)
		return
	}

	if !c.store.Exists(path) {
		c.abandon(path, "clip no longer on volume", fmt.Errorf("%w: %s", ErrNotFound, path))
		return
	}

	var err error
	for attempt := 1; attempt <= c.opts.restartAttempts; attempt++ {
		if attempt > 1 && !settle(c.opts.retrySettle, done) {
			c.abandon(path, "controller closing", err)
			return
		}

		c.restartAttempts.Add(1)
		if err = c.start(path); err == nil {
			logger.Infof("restarted %s (attempt %d)", path, attempt)
			c.events.publish(Event{Kind: Restarted, Path: path, Attempt: attempt})
			return
		}

		logger.WithError(err).Warnf("restart %s: attempt %d of %d failed", path, attempt, c.opts.restartAttempts)
	}

	c.restartFailures.Add(1)
	err = fmt.Errorf("%w: %w", ErrStartFailed, err)
	logger.WithError(err).Errorf("restart %s: giving up after %d attempts", path, c.opts.restartAttempts)
	c.events.publish(Event{Kind: RestartFailed, Path: path, Attempt: c.opts.restartAttempts, Err: err})
}

// superseded reports why an episode for session should no longer run, or "" if it should.
// Must be called with the playback lock held.
func (c *Controller) superseded(session uint64) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closing:
		return "controller closing"
	case c.session != session:
		return "superseded by a newer play or stop"
	case c.state != Idle:
		return fmt.Sprintf("controller is %s", c.state)
	case !c.loop:
		return "loop disabled"
	}
	return ""
}

func (c *Controller) abandon(path, reason string, err error) {
	l := logger.WithField("path", path)
	if err != nil {
		l = l.WithError(err)
	}
	l.Warnf("restart abandoned: %s", reason)
	c.events.publish(Event{Kind: RestartAbandoned, Path: path, Err: err})
}
