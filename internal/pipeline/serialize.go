package pipeline

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// ComponentDefinition is the persisted form of one component: its
// registry type name and the constructor parameters needed to rebuild
// it.
type ComponentDefinition struct {
	Type           string         `yaml:"type" json:"type"`
	InitParameters map[string]any `yaml:"init_parameters,omitempty" json:"init_parameters,omitempty"`
}

// ConnectionDefinition is the persisted form of one edge, both ends in
// "component.socket" notation.
type ConnectionDefinition struct {
	Sender   string `yaml:"sender" json:"sender"`
	Receiver string `yaml:"receiver" json:"receiver"`
}

// Definition is the plain configuration structure a pipeline
// round-trips through for persistence.
type Definition struct {
	Metadata        map[string]any                 `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	MaxLoopsAllowed int                            `yaml:"max_loops_allowed" json:"max_loops_allowed"`
	Components      map[string]ComponentDefinition `yaml:"components" json:"components"`
	Connections     []ConnectionDefinition         `yaml:"connections" json:"connections"`
}

// Definition converts the pipeline into its persisted form. Every
// component must implement Describable; instances that cannot describe
// themselves cannot be rebuilt and fail the conversion.
func (p *Pipeline) Definition() (*Definition, error) {
	def := &Definition{
		Metadata:        p.metadata,
		MaxLoopsAllowed: p.maxLoops,
		Components:      map[string]ComponentDefinition{},
	}
	for _, name := range p.order {
		n := p.nodes[name]
		d, ok := n.instance.(Describable)
		if !ok {
			return nil, newErrorf("component '%s' (%T) is not serializable: it does not describe its type and init parameters", name, n.instance)
		}
		def.Components[name] = ComponentDefinition{
			Type:           d.TypeName(),
			InitParameters: d.InitParameters(),
		}
	}
	for _, c := range p.connections {
		def.Connections = append(def.Connections, ConnectionDefinition{
			Sender:   c.Sender + "." + c.SenderSocket,
			Receiver: c.Receiver + "." + c.ReceiverSocket,
		})
	}
	return def, nil
}

// FromDefinition rebuilds a pipeline from its persisted form.
// Components are constructed through the builder from their type name
// and init parameters; entries present in instances are used as-is
// instead, allowing pre-built components to be passed back in. A
// missing or unresolvable component type, or a connection without a
// sender or receiver, fails with a descriptive error.
func FromDefinition(def *Definition, builder ComponentBuilder, instances map[string]Component) (*Pipeline, error) {
	opts := []Option{WithMaxLoops(def.MaxLoopsAllowed)}
	if def.Metadata != nil {
		opts = append(opts, WithMetadata(def.Metadata))
	}
	p := New(opts...)

	names := make([]string, 0, len(def.Components))
	for name := range def.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cdef := def.Components[name]
		instance, ok := instances[name]
		if !ok {
			if cdef.Type == "" {
				return nil, newErrorf("missing 'type' in component '%s'", name)
			}
			if builder == nil {
				return nil, newErrorf("cannot build component '%s' of type '%s': no component builder provided", name, cdef.Type)
			}
			built, err := builder.Build(cdef.Type, cdef.InitParameters)
			if err != nil {
				return nil, err
			}
			instance = built
		}
		if err := p.AddComponent(name, instance); err != nil {
			return nil, err
		}
	}

	for _, conn := range def.Connections {
		if conn.Sender == "" {
			return nil, newErrorf("missing sender in connection: {receiver: %s}", conn.Receiver)
		}
		if conn.Receiver == "" {
			return nil, newErrorf("missing receiver in connection: {sender: %s}", conn.Sender)
		}
		if err := p.Connect(conn.Sender, conn.Receiver); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MarshalDefinition renders a definition as YAML.
func MarshalDefinition(def *Definition) ([]byte, error) {
	return yaml.Marshal(def)
}

// UnmarshalDefinition parses a YAML definition.
func UnmarshalDefinition(data []byte) (*Definition, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, newErrorf("malformed pipeline definition: %v", err)
	}
	return def, nil
}
