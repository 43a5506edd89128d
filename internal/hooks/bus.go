// Package hooks provides the event bus recipes use to attach custom
// pre/post behavior without touching the orchestrator.
package hooks

import (
	"fmt"

	"github.com/conn-castle/tool-layer/internal/platform"
)

// Event names a lifecycle moment hooks can bind to.
type Event string

// Well-known lifecycle events.
const (
	EventPreDependencyResolution  Event = "pre_dependency_resolution"
	EventPostDependencyResolution Event = "post_dependency_resolution"
	EventPreInstall               Event = "pre_install"
	EventPostInstall              Event = "post_install"
)

// Context carries the run state a hook may inspect.
type Context struct {
	// Recipe is the recipe being processed, empty for once-per-run events.
	Recipe string
	// Status is the recipe outcome, set only for post_install.
	Status string
	// Platform is the detected host platform.
	Platform platform.Platform
}

// Hook is a first-class callback bound to an event.
type Hook func(Context) error

// HookError records one hook's failure without affecting its siblings.
type HookError struct {
	Event Event
	Name  string
	Err   error
}

func (e HookError) Error() string {
	return fmt.Sprintf("hook %s for %s: %v", e.Name, e.Event, e.Err)
}

type registration struct {
	name string
	fn   Hook
}

// Bus dispatches hooks per event in registration order. A Bus value is owned
// and passed by the orchestrator; there is no process-wide registry.
type Bus struct {
	hooks map[Event][]registration
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{hooks: make(map[Event][]registration)}
}

// Add binds fn under name to event. Hooks fire in the order they were added.
func (b *Bus) Add(event Event, name string, fn Hook) {
	if fn == nil {
		return
	}
	b.hooks[event] = append(b.hooks[event], registration{name: name, fn: fn})
}

// Fire runs every hook bound to event with hctx. One hook's error or panic is
// captured against that hook only and never blocks sibling hooks; all
// failures are returned for the caller to log.
func (b *Bus) Fire(event Event, hctx Context) []HookError {
	var failures []HookError
	for _, reg := range b.hooks[event] {
		if err := runHook(reg.fn, hctx); err != nil {
			failures = append(failures, HookError{Event: event, Name: reg.name, Err: err})
		}
	}
	return failures
}

// runHook invokes fn and converts a panic into an error.
func runHook(fn Hook, hctx Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(hctx)
}
