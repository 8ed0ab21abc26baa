package pipeline

import "github.com/zclconf/go-cty/cty"

// InputSocket describes one named input slot on a component. A socket
// with no default value is mandatory. Senders is populated by the
// engine as connections are made; a declared socket starts with none.
type InputSocket struct {
	Name       string
	Type       cty.Type
	Default    any
	HasDefault bool
	// Variadic marks a multiplexed input: values routed from multiple
	// senders within one cycle are collected into a slice instead of
	// overwriting each other, and the component arbitrates.
	Variadic bool
	Senders  []string
}

// Mandatory reports whether the socket must receive a value, either
// from a sender or from the external caller, before its component can
// run.
func (s InputSocket) Mandatory() bool { return !s.HasDefault }

// NewInput declares a mandatory input socket.
func NewInput(name string, typ cty.Type) InputSocket {
	return InputSocket{Name: name, Type: typ}
}

// NewInputWithDefault declares an optional input socket. The default is
// used whenever no value is pending for the socket.
func NewInputWithDefault(name string, typ cty.Type, def any) InputSocket {
	return InputSocket{Name: name, Type: typ, Default: def, HasDefault: true}
}

// NewVariadicInput declares a multiplexed input socket that may be fed
// by any number of senders. The component receives all values pending
// for the current cycle as a slice.
func NewVariadicInput(name string, typ cty.Type) InputSocket {
	return InputSocket{Name: name, Type: typ, Variadic: true}
}

// OutputSocket describes one named output slot on a component.
// Receivers is populated by the engine; an output may fan out to any
// number of receivers.
type OutputSocket struct {
	Name      string
	Type      cty.Type
	Receivers []string
}

// NewOutput declares an output socket.
func NewOutput(name string, typ cty.Type) OutputSocket {
	return OutputSocket{Name: name, Type: typ}
}
