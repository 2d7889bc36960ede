// Package cache keeps a short-lived copy of the volume's clip listing so that
// completion and list views do not walk the volume on every keystroke.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/reelbox/reelbox/storage"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// TTL is how long a listing stays fresh by default.
const TTL = 5 * time.Second

// Source lists clips matching a set of extensions.
type Source interface {
	Clips(exts ...string) ([]storage.Entry, error)
}

type entry struct {
	clips   []storage.Entry
	fetched time.Time
}

// Listing caches the results of a Source per extension filter.
type Listing struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New wraps source. A non-positive ttl falls back to TTL.
func New(source Source, ttl time.Duration) *Listing {
	if ttl <= 0 {
		ttl = TTL
	}
	return &Listing{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Clips returns the cached listing for exts, refreshing it once it has expired.
// Failed refreshes are not cached.
func (l *Listing) Clips(exts ...string) ([]storage.Entry, error) {
	k := keyOf(exts)

	l.mu.Lock()
	e, ok := l.entries[k]
	l.mu.Unlock()

	if ok && l.now().Sub(e.fetched) < l.ttl {
		return e.clips, nil
	}

	clips, err := l.source.Clips(exts...)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.entries[k] = entry{clips: clips, fetched: l.now()}
	l.mu.Unlock()

	return clips, nil
}

// Invalidate drops every cached listing.
func (l *Listing) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]entry)
}

// keyOf is order and case insensitive.
func keyOf(exts []string) string {
	normalized := lo.Uniq(lo.Map(exts, func(ext string, _ int) string {
		return strings.ToLower(ext)
	}))
	normalized = lo.Filter(normalized, func(ext string, _ int) bool { return ext != "" })
	slices.Sort(normalized)
	return strings.Join(normalized, ",")
}
