package pipeline

import "github.com/zclconf/go-cty/cty"

// Wildcard is the "accepts anything" socket type. An input declared
// with it is compatible with every output, and vice versa.
var Wildcard = cty.DynamicPseudoType

// typesCompatible reports whether a value produced on an output socket
// of type out may flow into an input socket of type in. Compatibility
// holds when either side is the wildcard (including wildcard slots
// nested inside collection types) or the types are structurally equal.
func typesCompatible(out, in cty.Type) bool {
	if out.TestConformance(in) == nil {
		return true
	}
	// Conformance is directional for dynamic slots, so check both ways.
	return in.TestConformance(out) == nil
}

// typeName renders a socket type for error messages and surface
// descriptions.
func typeName(t cty.Type) string {
	if t == cty.NilType {
		return "unspecified"
	}
	return t.FriendlyName()
}
