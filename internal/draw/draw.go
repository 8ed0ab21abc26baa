// Package draw renders a pipeline's structure as diagram text. It only
// consumes the engine's structural introspection; turning the text into
// an image belongs to external tooling.
package draw

import (
	"fmt"
	"strings"

	"github.com/vk/flowgraph/internal/pipeline"
)

// Mermaid renders the pipeline as a Mermaid flowchart.
func Mermaid(p *pipeline.Pipeline) (string, error) {
	names := p.ComponentNames()
	if len(names) == 0 {
		return "", &pipeline.DrawingError{Msg: "cannot draw an empty pipeline"}
	}

	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", name, name)
	}
	for _, c := range p.Connections() {
		fmt.Fprintf(&b, "  %s -- \"%s -> %s\" --> %s\n", c.Sender, c.SenderSocket, c.ReceiverSocket, c.Receiver)
	}
	return b.String(), nil
}

// DOT renders the pipeline in Graphviz dot notation.
func DOT(p *pipeline.Pipeline) (string, error) {
	names := p.ComponentNames()
	if len(names) == 0 {
		return "", &pipeline.DrawingError{Msg: "cannot draw an empty pipeline"}
	}

	var b strings.Builder
	b.WriteString("digraph pipeline {\n")
	b.WriteString("  rankdir=TB;\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %q;\n", name)
	}
	for _, c := range p.Connections() {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n",
			c.Sender, c.Receiver, c.SenderSocket+" -> "+c.ReceiverSocket)
	}
	b.WriteString("}\n")
	return b.String(), nil
}
