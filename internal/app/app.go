// Package app assembles the application: logger construction, module
// registration, definition loading and pipeline execution.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgraph/internal/config"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/registry"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// PipelinePath points at a definition file or a directory of them.
	PipelinePath string
	LogFormat    string
	LogLevel     string
	// DrawFormat, when set, prints a diagram instead of running.
	// Supported values: "mermaid", "dot".
	DrawFormat string
	// Inputs are caller-supplied initial values, merged over the
	// definition's input blocks.
	Inputs map[string]map[string]any
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
}

// NewApp constructs a fully initialized App with an isolated logger and
// registry. When no modules are passed, the built-in component modules
// are registered.
func NewApp(outW io.Writer, appConfig *Config, loader *config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline definition: %w", err)
	}
	logger.Debug("Definition loaded into unified model.",
		"components", len(model.Components), "connections", len(model.Connections))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All component modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
	}, nil
}

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
