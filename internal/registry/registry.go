// Package registry maps stable component type names to factory
// functions. Registration is explicit: nothing is scanned or inferred,
// and deserialization resolves types only through this table.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowgraph/internal/pipeline"
)

// Factory builds a component instance from its constructor parameters.
type Factory func(params map[string]any) (pipeline.Component, error)

// Module is the interface component packages implement to plug their
// factories into a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the component factories for a single application
// instance.
type Registry struct {
	factories map[string]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under a type name. Registering the same name
// twice is a programmer error and panics.
func (r *Registry) Register(typeName string, f Factory) {
	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("component factory with type name '%s' already registered", typeName))
	}
	slog.Debug("Registering component factory.", "type", typeName)
	r.factories[typeName] = f
}

// Build constructs a component of the given type. An unknown type name
// is a pipeline error so deserialization failures surface uniformly.
func (r *Registry) Build(typeName string, params map[string]any) (pipeline.Component, error) {
	f, ok := r.factories[typeName]
	if !ok {
		return nil, &pipeline.Error{Msg: fmt.Sprintf("component type '%s' is not registered: known types are %v", typeName, r.Types())}
	}
	instance, err := f(params)
	if err != nil {
		return nil, &pipeline.Error{Msg: fmt.Sprintf("building component of type '%s': %v", typeName, err)}
	}
	return instance, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
