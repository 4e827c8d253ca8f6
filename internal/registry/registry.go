package registry

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/burstmatrix/internal/action"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered actions of a single application instance.
type Registry struct {
	actions map[string]action.Action
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{actions: make(map[string]action.Action)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterAction binds an action to a name. Registering a name twice is a
// programming error and panics.
func (r *Registry) RegisterAction(name string, a action.Action) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("action with name '%s' already registered", name))
	}
	r.actions[name] = a
}

// Action returns the action registered under name.
func (r *Registry) Action(name string) (action.Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
