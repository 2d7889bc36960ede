package decoder

import (
	"fmt"
	"path"
	"strings"
	"sync"
)

// Auto routes each session to an engine chosen by the clip's file extension.
// Only the engine that served the latest Start is ever stopped, so the set still
// behaves as one non-reentrant resource.
type Auto struct {
	mu      sync.Mutex
	routes  map[string]Engine
	engines []Engine
	active  Engine
}

// NewAuto returns an empty router; register engines with Route.
func NewAuto() *Auto {
	return &Auto{routes: make(map[string]Engine)}
}

// Route registers e for the given extensions (with leading dot, case-insensitive).
func (a *Auto) Route(e Engine, exts ...string) *Auto {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, ext := range exts {
		a.routes[strings.ToLower(ext)] = e
	}
	for _, known := range a.engines {
		if known == e {
			return a
		}
	}
	a.engines = append(a.engines, e)
	return a
}

// Extensions returns every routed extension.
func (a *Auto) Extensions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	exts := make([]string, 0, len(a.routes))
	for ext := range a.routes {
		exts = append(exts, ext)
	}
	return exts
}

// Open opens every registered engine with the same configuration.
func (a *Auto) Open(cfg Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, e := range a.engines {
		if err := e.Open(cfg); err != nil {
			for _, opened := range a.engines[:i] {
				_ = opened.Close()
			}
			return err
		}
	}
	return nil
}

// Start dispatches to the engine registered for the clip's extension.
func (a *Auto) Start(clip string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.routes[strings.ToLower(path.Ext(clip))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, path.Ext(clip))
	}

	if a.active != nil && a.active != e {
		if err := a.active.Stop(); err != nil {
			return err
		}
	}

	if err := e.Start(clip); err != nil {
		return err
	}
	a.active = e
	return nil
}

// Stop stops the engine that served the latest session.
func (a *Auto) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active == nil {
		return nil
	}
	return a.active.Stop()
}

// Close closes every engine and returns the first error.
func (a *Auto) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var first error
	for _, e := range a.engines {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.active = nil
	return first
}
