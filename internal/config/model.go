// Package config loads declarative pipeline definitions from HCL files
// into a format-agnostic model that the app layer turns into a live
// pipeline.
package config

// ComponentConfig declares one component instance: its registry type,
// its name within the pipeline, and its constructor parameters.
type ComponentConfig struct {
	Type   string
	Name   string
	Params map[string]any
}

// ConnectionConfig declares one connection, both ends in
// "component.socket" or bare "component" notation.
type ConnectionConfig struct {
	From string
	To   string
}

// Model is the loaded, format-agnostic pipeline definition.
type Model struct {
	MaxLoopsAllowed int
	Metadata        map[string]any
	Components      []ComponentConfig
	Connections     []ConnectionConfig
	// Inputs are the initial values seeded into the run, keyed by
	// component name then input socket name.
	Inputs map[string]map[string]any
}
