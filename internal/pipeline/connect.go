package pipeline

import (
	"fmt"
	"strings"
)

// parseSocketSpec splits a "component.socket" connection spec on the
// first dot. The socket part is empty when the spec names only the
// component, leaving the socket to be inferred.
func parseSocketSpec(spec string) (component, socket string) {
	if i := strings.Index(spec, "."); i >= 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}

// socketPair is one candidate output/input wiring between two components.
type socketPair struct {
	out *OutputSocket
	in  *InputSocket
}

// findUnambiguousConnection selects exactly one output/input socket
// pairing between a sender and a receiver. Candidates are the full
// pairwise product filtered to type-compatible pairs whose input is not
// already claimed by a different sender. Ties are narrowed by
// preferring pairs whose socket names match; anything other than
// exactly one survivor is a ConnectError.
func findUnambiguousConnection(senderName, receiverName string, outs []*OutputSocket, ins []*InputSocket) (socketPair, error) {
	var candidates []socketPair
	for _, out := range outs {
		for _, in := range ins {
			if !typesCompatible(out.Type, in.Type) {
				continue
			}
			if !inputAvailable(in, senderName) {
				continue
			}
			candidates = append(candidates, socketPair{out: out, in: in})
		}
	}

	if len(candidates) == 0 {
		return socketPair{}, newConnectErrorf(
			"cannot connect '%s' with '%s': no matching connections available.\n%s",
			senderName, receiverName, connectionsStatus(senderName, receiverName, outs, ins))
	}

	if len(candidates) > 1 {
		var nameMatches []socketPair
		for _, c := range candidates {
			if c.out.Name == c.in.Name {
				nameMatches = append(nameMatches, c)
			}
		}
		if len(nameMatches) != 1 {
			return socketPair{}, newConnectErrorf(
				"cannot connect '%s' with '%s': more than one connection is possible between these components. "+
					"Please specify the connection name, like: connect(\"%s.%s\", \"%s.%s\").\n%s",
				senderName, receiverName,
				senderName, candidates[0].out.Name, receiverName, candidates[0].in.Name,
				connectionsStatus(senderName, receiverName, outs, ins))
		}
		candidates = nameMatches
	}

	return candidates[0], nil
}

// inputAvailable reports whether an input socket may accept a
// connection from the given sender. Variadic sockets accept any number
// of senders; re-connecting the same sender is idempotent, not a
// conflict.
func inputAvailable(in *InputSocket, senderName string) bool {
	if in.Variadic || len(in.Senders) == 0 {
		return true
	}
	for _, s := range in.Senders {
		if s != senderName {
			return false
		}
	}
	return true
}

// connectionsStatus lists the state of both components' sockets for
// connection error messages, so the caller can pick sockets explicitly.
func connectionsStatus(senderName, receiverName string, outs []*OutputSocket, ins []*InputSocket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s':\n", senderName)
	for _, out := range outs {
		fmt.Fprintf(&b, " - %s (%s)\n", out.Name, typeName(out.Type))
	}
	fmt.Fprintf(&b, "'%s':\n", receiverName)
	for _, in := range ins {
		occupancy := "available"
		if len(in.Senders) > 0 {
			occupancy = "sent by " + strings.Join(in.Senders, ", ")
		}
		fmt.Fprintf(&b, " - %s (%s), %s\n", in.Name, typeName(in.Type), occupancy)
	}
	return strings.TrimRight(b.String(), "\n")
}
