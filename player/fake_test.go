package player

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reelbox/reelbox/decoder"
)

var errHardware = errors.New("hardware fault")

// fakeEngine records every call and lets tests script failures and end of stream.
type fakeEngine struct {
	mu       sync.Mutex
	cfg      decoder.Config
	opens    int
	closes   int
	started  []string
	stops    int
	openErr  error
	stopErr  error
	startErr error
	// startGate, when set, blocks Start until it is closed
	startGate chan struct{}
	// endingOnStop makes the next Stop deliver the end of stream of a session
	// that ran out just as it was being stopped
	endingOnStop bool
	entered   chan struct{}

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{entered: make(chan struct{}, 16)}
}

func (f *fakeEngine) enter() func() {
	n := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeEngine) Open(cfg decoder.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return f.openErr
	}
	f.cfg = cfg
	f.opens++
	return nil
}

func (f *fakeEngine) Start(path string) error {
	defer f.enter()()

	f.mu.Lock()
	gate := f.startGate
	f.mu.Unlock()

	select {
	case f.entered <- struct{}{}:
	default:
	}

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = append(f.started, path)
	return f.startErr
}

func (f *fakeEngine) Stop() error {
	defer f.enter()()

	f.mu.Lock()
	ending := f.endingOnStop
	f.endingOnStop = false
	f.mu.Unlock()

	if ending {
		f.finish()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.stops++
	return f.stopErr
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closes++
	return nil
}

// finish simulates the natural end of the running clip, delivered on a foreign goroutine.
func (f *fakeEngine) finish() {
	f.mu.Lock()
	eos := f.cfg.Callbacks.EndOfStream
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		eos()
	}()
	<-done
}

func (f *fakeEngine) emit(frame decoder.Frame) {
	f.mu.Lock()
	cb := f.cfg.Callbacks
	f.mu.Unlock()

	if frame.Kind == decoder.Video {
		cb.Video(frame)
	} else {
		cb.Audio(frame)
	}
}

func (f *fakeEngine) set(fn func(f *fakeEngine)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeEngine) snapshot() (started []string, stops, opens, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.started...), f.stops, f.opens, f.closes
}

// fakeStore is a set of existing clip paths.
type fakeStore struct {
	mu       sync.Mutex
	clips    map[string]bool
	readyErr error
	probes   int
}

func newFakeStore(clips ...string) *fakeStore {
	s := &fakeStore{clips: make(map[string]bool)}
	for _, c := range clips {
		s.clips[c] = true
	}
	return s
}

func (s *fakeStore) Ready() error { return s.readyErr }

func (s *fakeStore) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes++
	return s.clips[path]
}

func (s *fakeStore) remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clips, path)
}

func (s *fakeStore) probeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probes
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) find(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func (r *recorder) has(kind EventKind) bool {
	_, ok := r.find(kind)
	return ok
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// fastOptions keep the settle delays short enough for tests.
func fastOptions(extra ...Option) []Option {
	return append([]Option{
		WithBufferSize(64),
		WithLockTimeout(200 * time.Millisecond),
		WithStopSettle(time.Millisecond),
		WithRestartSettle(10 * time.Millisecond),
		WithRetrySettle(10 * time.Millisecond),
	}, extra...)
}
