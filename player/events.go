package player

import (
	"sync"
	"time"
)

// EventKind identifies a lifecycle transition.
type EventKind int

const (
	Started EventKind = iota
	Stopped
	EndOfStream
	Restarted
	RestartFailed
	RestartAbandoned
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case EndOfStream:
		return "end-of-stream"
	case Restarted:
		return "restarted"
	case RestartFailed:
		return "restart-failed"
	case RestartAbandoned:
		return "restart-abandoned"
	default:
		return "unknown"
	}
}

// Event reports a lifecycle transition to subscribers.
type Event struct {
	Kind    EventKind
	Path    string
	Attempt int
	Err     error
	Time    time.Time
}

// EventCallback receives events on the dispatcher goroutine, in emission order.
type EventCallback func(Event)

const eventQueueSize = 64

// eventBus decouples subscribers from the goroutines emitting events, the decoder
// goroutine included. Events published while the bus is not listening are dropped.
type eventBus struct {
	mu        sync.Mutex
	subs      map[int]EventCallback
	nextID    int
	ch        chan Event
	stopCh    chan struct{}
	doneCh    chan struct{}
	listening bool
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[int]EventCallback)}
}

func (b *eventBus) subscribe(fn EventCallback) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *eventBus) start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listening {
		return
	}

	b.ch = make(chan Event, eventQueueSize)
	b.stopCh = make(chan struct{})
	b.doneCh = make(chan struct{})
	b.listening = true

	go b.loop(b.ch, b.stopCh, b.doneCh)
}

// stop delivers everything already queued, then terminates the dispatcher.
func (b *eventBus) stop() {
	b.mu.Lock()
	if !b.listening {
		b.mu.Unlock()
		return
	}
	b.listening = false
	close(b.stopCh)
	done := b.doneCh
	b.mu.Unlock()

	<-done
}

func (b *eventBus) publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.listening {
		return
	}

	select {
	case b.ch <- e:
	default:
		logger.Warnf("event queue full, dropped %s event for %s", e.Kind, e.Path)
	}
}

func (b *eventBus) loop(ch <-chan Event, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		select {
		case e := <-ch:
			b.dispatch(e)
		case <-stopCh:
			for {
				select {
				case e := <-ch:
					b.dispatch(e)
				default:
					return
				}
			}
		}
	}
}

func (b *eventBus) dispatch(e Event) {
	b.mu.Lock()
	subs := make([]EventCallback, 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
