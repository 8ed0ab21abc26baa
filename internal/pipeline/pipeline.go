package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"
)

// DefaultMaxLoops is the per-component visit ceiling applied when a
// pipeline is built without an explicit setting.
const DefaultMaxLoops = 100

// owners tracks which pipeline each component instance belongs to.
// Ownership is exclusive: an instance added to one pipeline cannot be
// added to another, or to the same one twice.
var owners sync.Map // Component -> *Pipeline

// Connection is one typed edge of the graph, from a sender component's
// output socket to a receiver component's input socket.
type Connection struct {
	Sender         string
	SenderSocket   string
	Receiver       string
	ReceiverSocket string
	Type           cty.Type
	Mandatory      bool
}

// node wraps one component instance together with the engine-owned
// socket state. Nodes are addressed by name, never by pointer chains,
// so cycles in the connection graph introduce no ownership problem.
type node struct {
	name        string
	instance    Component
	inputs      map[string]*InputSocket
	inputOrder  []string
	outputs     map[string]*OutputSocket
	outputOrder []string
	visits      int
}

// Pipeline is the graph store: it owns the component nodes and the
// typed connections between them, and drives runs to completion. A
// Pipeline is reusable across runs but not run-reentrant.
type Pipeline struct {
	metadata    map[string]any
	maxLoops    int
	nodes       map[string]*node
	order       []string
	connections []Connection
	running     atomic.Bool
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithMetadata attaches opaque key/value annotations to the pipeline.
// The engine passes them through untouched.
func WithMetadata(md map[string]any) Option {
	return func(p *Pipeline) { p.metadata = md }
}

// WithMaxLoops sets the per-component visit ceiling for one run.
// Values below 1 are ignored.
func WithMaxLoops(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.maxLoops = n
		}
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		metadata: map[string]any{},
		maxLoops: DefaultMaxLoops,
		nodes:    map[string]*node{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metadata returns the pipeline's opaque annotations.
func (p *Pipeline) Metadata() map[string]any { return p.metadata }

// MaxLoopsAllowed returns the per-component visit ceiling.
func (p *Pipeline) MaxLoopsAllowed() int { return p.maxLoops }

// ComponentNames returns the registered component names in insertion
// order.
func (p *Pipeline) ComponentNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Component returns the instance registered under name, or nil.
func (p *Pipeline) Component(name string) Component {
	if n, ok := p.nodes[name]; ok {
		return n.instance
	}
	return nil
}

// Connections returns a copy of the edge list in creation order.
func (p *Pipeline) Connections() []Connection {
	conns := make([]Connection, len(p.connections))
	copy(conns, p.connections)
	return conns
}

// AddComponent registers a component instance under a unique name and
// takes exclusive ownership of the instance. It fails when the name is
// taken or the instance already belongs to a pipeline.
func (p *Pipeline) AddComponent(name string, instance Component) error {
	if _, exists := p.nodes[name]; exists {
		return newErrorf("a component named '%s' already exists in this pipeline: choose another name", name)
	}
	if _, owned := owners.Load(instance); owned {
		return newErrorf("component '%s' has already been added to a pipeline: components are owned exclusively by one pipeline", name)
	}

	n := &node{
		name:     name,
		instance: instance,
		inputs:   map[string]*InputSocket{},
		outputs:  map[string]*OutputSocket{},
	}
	for _, in := range instance.Inputs() {
		if _, dup := n.inputs[in.Name]; dup {
			return newErrorf("component '%s' declares input socket '%s' more than once", name, in.Name)
		}
		sock := in
		sock.Senders = nil
		n.inputs[sock.Name] = &sock
		n.inputOrder = append(n.inputOrder, sock.Name)
	}
	for _, out := range instance.Outputs() {
		if _, dup := n.outputs[out.Name]; dup {
			return newErrorf("component '%s' declares output socket '%s' more than once", name, out.Name)
		}
		sock := out
		sock.Receivers = nil
		n.outputs[sock.Name] = &sock
		n.outputOrder = append(n.outputOrder, sock.Name)
	}

	owners.Store(instance, p)
	p.nodes[name] = n
	p.order = append(p.order, name)
	return nil
}

// Connect wires a sender's output socket to a receiver's input socket.
// Both specs may name just the component ("comp") or qualify the socket
// ("comp.socket"); unqualified sides are resolved to the single
// type-compatible pairing, or the call fails with a ConnectError.
// Re-declaring an existing connection is a no-op.
func (p *Pipeline) Connect(sender, receiver string) error {
	senderName, outName := parseSocketSpec(sender)
	receiverName, inName := parseSocketSpec(receiver)

	from, ok := p.nodes[senderName]
	if !ok {
		return newConnectErrorf("component named '%s' not found in the pipeline", senderName)
	}
	to, ok := p.nodes[receiverName]
	if !ok {
		return newConnectErrorf("component named '%s' not found in the pipeline", receiverName)
	}

	outs, err := from.outputCandidates(outName)
	if err != nil {
		return err
	}
	ins, err := to.inputCandidates(inName)
	if err != nil {
		return err
	}

	pair, err := findUnambiguousConnection(senderName, receiverName, outs, ins)
	if err != nil {
		return err
	}

	for _, c := range p.connections {
		if c.Sender == senderName && c.SenderSocket == pair.out.Name &&
			c.Receiver == receiverName && c.ReceiverSocket == pair.in.Name {
			return nil
		}
	}

	pair.out.Receivers = appendUnique(pair.out.Receivers, receiverName)
	pair.in.Senders = appendUnique(pair.in.Senders, senderName)
	p.connections = append(p.connections, Connection{
		Sender:         senderName,
		SenderSocket:   pair.out.Name,
		Receiver:       receiverName,
		ReceiverSocket: pair.in.Name,
		Type:           pair.out.Type,
		Mandatory:      pair.in.Mandatory(),
	})
	return nil
}

// outputCandidates narrows the node's output sockets to the named one,
// or returns all of them in declaration order when no name was given.
func (n *node) outputCandidates(name string) ([]*OutputSocket, error) {
	if name != "" {
		sock, ok := n.outputs[name]
		if !ok {
			return nil, newConnectErrorf("'%s.%s' does not exist: output sockets of '%s' are %s",
				n.name, name, n.name, n.socketNames(n.outputOrder))
		}
		return []*OutputSocket{sock}, nil
	}
	outs := make([]*OutputSocket, 0, len(n.outputOrder))
	for _, s := range n.outputOrder {
		outs = append(outs, n.outputs[s])
	}
	return outs, nil
}

// inputCandidates mirrors outputCandidates for input sockets.
func (n *node) inputCandidates(name string) ([]*InputSocket, error) {
	if name != "" {
		sock, ok := n.inputs[name]
		if !ok {
			return nil, newConnectErrorf("'%s.%s' does not exist: input sockets of '%s' are %s",
				n.name, name, n.name, n.socketNames(n.inputOrder))
		}
		return []*InputSocket{sock}, nil
	}
	ins := make([]*InputSocket, 0, len(n.inputOrder))
	for _, s := range n.inputOrder {
		ins = append(ins, n.inputs[s])
	}
	return ins, nil
}

func (n *node) socketNames(order []string) string {
	if len(order) == 0 {
		return "(none)"
	}
	out := ""
	for i, s := range order {
		if i > 0 {
			out += ", "
		}
		out += "'" + s + "'"
	}
	return out
}

// InputInfo describes one externally reachable input socket.
type InputInfo struct {
	Type      cty.Type
	Mandatory bool
}

// OutputInfo describes one externally visible output socket.
type OutputInfo struct {
	Type cty.Type
}

// Inputs returns the declared external input surface of the graph: for
// every component, the input sockets not fed by any sender. Components
// with no input sockets do not appear.
func (p *Pipeline) Inputs() map[string]map[string]InputInfo {
	surface := map[string]map[string]InputInfo{}
	for _, name := range p.order {
		n := p.nodes[name]
		for _, sockName := range n.inputOrder {
			sock := n.inputs[sockName]
			if len(sock.Senders) > 0 {
				continue
			}
			if surface[name] == nil {
				surface[name] = map[string]InputInfo{}
			}
			surface[name][sockName] = InputInfo{Type: sock.Type, Mandatory: sock.Mandatory()}
		}
	}
	return surface
}

// Outputs returns the external output surface: for every component, the
// output sockets wired to no receiver.
func (p *Pipeline) Outputs() map[string]map[string]OutputInfo {
	surface := map[string]map[string]OutputInfo{}
	for _, name := range p.order {
		n := p.nodes[name]
		for _, sockName := range n.outputOrder {
			sock := n.outputs[sockName]
			if len(sock.Receivers) > 0 {
				continue
			}
			if surface[name] == nil {
				surface[name] = map[string]OutputInfo{}
			}
			surface[name][sockName] = OutputInfo{Type: sock.Type}
		}
	}
	return surface
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
