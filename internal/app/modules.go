package app

import (
	"github.com/vk/flowgraph/internal/registry"
	"github.com/vk/flowgraph/modules/arith"
	"github.com/vk/flowgraph/modules/fetch"
	"github.com/vk/flowgraph/modules/flow"
	"github.com/vk/flowgraph/modules/text"
)

// coreModules lists the built-in component modules registered when the
// caller does not supply its own set.
var coreModules = []registry.Module{
	&arith.Module{},
	&flow.Module{},
	&text.Module{},
	&fetch.Module{},
}
