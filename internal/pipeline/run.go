package pipeline

import (
	"context"
	"errors"
	"sort"

	"github.com/vk/flowgraph/internal/ctxlog"
)

// runState is the ephemeral per-run bookkeeping. It is created at the
// start of Run and discarded at the end; the pipeline itself is
// reusable across runs.
type runState struct {
	// pending holds, per component, the input values collected so far
	// in the current cycle. Variadic sockets hold a []any that values
	// are appended to; all other sockets hold the last written value.
	pending map[string]map[string]any
	// results accumulates values produced on output sockets with no
	// receivers, keyed by component then socket name.
	results map[string]map[string]any
}

// Run drives the graph to a fixed point. The caller seeds initial
// inputs per component and socket name; the returned mapping holds the
// values produced on output sockets wired to no receiver, keyed the
// same way. The run ends when no component has all mandatory inputs
// satisfied and no newly produced values remain to route.
//
// A pipeline is not run-reentrant: a second concurrent Run fails fast.
func (p *Pipeline) Run(ctx context.Context, inputs map[string]map[string]any) (map[string]map[string]any, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, newErrorf("pipeline is already running: concurrent runs against the same pipeline are not supported")
	}
	defer p.running.Store(false)

	logger := ctxlog.FromContext(ctx)

	state := &runState{
		pending: map[string]map[string]any{},
		results: map[string]map[string]any{},
	}
	for _, n := range p.nodes {
		n.visits = 0
	}
	if err := p.seed(state, inputs); err != nil {
		return nil, err
	}

	for {
		name, ok := p.nextReady(state)
		if !ok {
			break
		}
		n := p.nodes[name]

		n.visits++
		if n.visits > p.maxLoops {
			return nil, &MaxLoopsError{Component: name, Limit: p.maxLoops}
		}

		callInputs := n.collectInputs(state.pending[name])
		delete(state.pending, name)

		logger.Debug("Running component.", "component", name, "visits", n.visits)
		outputs, err := n.instance.Run(ctx, callInputs)
		if err != nil {
			return nil, &RuntimeError{Component: name, Err: err}
		}
		if outputs == nil {
			return nil, &RuntimeError{Component: name, Err: errors.New("execution returned no output mapping")}
		}

		p.route(state, n, outputs)
	}

	logger.Debug("Run complete.", "components_with_outputs", len(state.results))
	return state.results, nil
}

// seed validates the caller-supplied initial inputs and copies them
// into the pending buffers.
func (p *Pipeline) seed(state *runState, inputs map[string]map[string]any) error {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n, ok := p.nodes[name]
		if !ok {
			return newErrorf("pipeline received data for unknown component '%s'", name)
		}
		for sockName, value := range inputs[name] {
			sock, ok := n.inputs[sockName]
			if !ok {
				return newErrorf("component '%s' has no input socket named '%s'", name, sockName)
			}
			deliver(state, name, sock, value)
		}
	}
	return nil
}

// nextReady returns the first ready component in insertion order. A
// component is ready when every mandatory input socket has a pending
// value (or a default, for optional sockets), and it either has never
// run this cycle or has been re-triggered by newly routed values.
func (p *Pipeline) nextReady(state *runState) (string, bool) {
	for _, name := range p.order {
		if p.nodes[name].ready(state.pending[name]) {
			return name, true
		}
	}
	return "", false
}

func (n *node) ready(pending map[string]any) bool {
	// Re-entry requires fresh input; a visited component with nothing
	// pending is done until a loop routes new values to it.
	if n.visits > 0 && len(pending) == 0 {
		return false
	}
	for _, sockName := range n.inputOrder {
		sock := n.inputs[sockName]
		if !sock.Mandatory() {
			continue
		}
		if _, ok := pending[sockName]; !ok {
			return false
		}
	}
	return true
}

// collectInputs assembles the value mapping passed to the component:
// pending values where present, defaults otherwise. Sockets with
// neither are omitted.
func (n *node) collectInputs(pending map[string]any) map[string]any {
	call := map[string]any{}
	for _, sockName := range n.inputOrder {
		sock := n.inputs[sockName]
		if value, ok := pending[sockName]; ok {
			call[sockName] = value
			continue
		}
		if sock.HasDefault {
			call[sockName] = sock.Default
		}
	}
	return call
}

// route delivers each produced output value to every connected
// receiver's pending buffer, then records values on receiverless
// sockets as run results. Output names the component never declared are
// treated as receiverless. When several senders hit the same
// non-variadic socket in one cycle, the last write by execution order
// wins.
func (p *Pipeline) route(state *runState, n *node, outputs map[string]any) {
	routed := map[string]bool{}
	for _, sockName := range n.outputOrder {
		value, ok := outputs[sockName]
		if !ok {
			continue
		}
		routed[sockName] = true
		sock := n.outputs[sockName]
		if len(sock.Receivers) == 0 {
			setResult(state, n.name, sockName, value)
			continue
		}
		for _, c := range p.connections {
			if c.Sender != n.name || c.SenderSocket != sockName {
				continue
			}
			deliver(state, c.Receiver, p.nodes[c.Receiver].inputs[c.ReceiverSocket], value)
		}
	}

	extra := make([]string, 0)
	for name := range outputs {
		if !routed[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		setResult(state, n.name, name, outputs[name])
	}
}

// deliver writes one value into a component's pending buffer. Variadic
// sockets collect values; plain sockets overwrite.
func deliver(state *runState, component string, sock *InputSocket, value any) {
	buf := state.pending[component]
	if buf == nil {
		buf = map[string]any{}
		state.pending[component] = buf
	}
	if sock.Variadic {
		existing, _ := buf[sock.Name].([]any)
		buf[sock.Name] = append(existing, value)
		return
	}
	buf[sock.Name] = value
}

func setResult(state *runState, component, socket string, value any) {
	if state.results[component] == nil {
		state.results[component] = map[string]any{}
	}
	state.results[component][socket] = value
}
