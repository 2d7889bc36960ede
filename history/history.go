// Package history keeps a persistent per-clip record of playback sessions.
package history

import (
	"sort"
	"sync"

	"github.com/metafates/gache"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/where"
)

// cacher is the disk-backed registry of clip records, keyed by volume path.
var cacher = gache.New[map[string]*Clip](
	&gache.Options{
		Path:       where.History(),
		FileSystem: store{},
	},
)

// mu serializes read-modify-write cycles on the registry.
var mu sync.Mutex

// Get returns every stored clip record.
func Get() (map[string]*Clip, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Clip), nil
	}
	return cached, nil
}

// Sorted returns the stored records, most recently played first.
func Sorted() ([]*Clip, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	clips := make([]*Clip, 0, len(saved))
	for _, c := range saved {
		clips = append(clips, c)
	}
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].LastPlayed.After(clips[j].LastPlayed)
	})
	return clips, nil
}

// Record folds a controller event into the registry. Events that do not describe
// a session boundary are ignored.
func Record(e player.Event) error {
	switch e.Kind {
	case player.Started, player.Restarted, player.RestartFailed:
	default:
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	clip, ok := saved[e.Path]
	if !ok {
		clip = &Clip{Path: e.Path}
		saved[e.Path] = clip
	}

	switch e.Kind {
	case player.Started:
		clip.Plays++
		clip.LastPlayed = e.Time
	case player.Restarted:
		clip.Restarts++
		clip.LastPlayed = e.Time
	case player.RestartFailed:
		clip.Failures++
	}

	return cacher.Set(saved)
}

// Remove deletes the record for path.
func Remove(path string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, path)
	return cacher.Set(saved)
}

// Subscriber is anything emitting controller events.
type Subscriber interface {
	Subscribe(fn player.EventCallback) (unsubscribe func())
}

// Track records every event emitted by s until the returned function is called.
// Write failures are passed to onError, which may be nil.
func Track(s Subscriber, onError func(error)) (untrack func()) {
	return s.Subscribe(func(e player.Event) {
		if err := Record(e); err != nil && onError != nil {
			onError(err)
		}
	})
}
