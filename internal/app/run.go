package app

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/draw"
	"github.com/vk/flowgraph/internal/pipeline"
)

// Run executes the loaded pipeline definition: build the graph, seed
// the inputs, drive it to completion and print the result mapping as
// YAML. When a draw format is configured, the diagram is printed
// instead of running.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	p, err := a.buildPipeline()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	a.logger.Debug("Pipeline built.",
		"components", len(p.ComponentNames()), "connections", len(p.Connections()))

	if appConfig.DrawFormat != "" {
		return a.draw(p, appConfig.DrawFormat)
	}

	inputs := mergeInputs(a.model.Inputs, appConfig.Inputs)

	a.logger.Info("Starting pipeline run.", "components", len(p.ComponentNames()))
	results, err := p.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	a.logger.Info("Pipeline run finished.", "components_with_outputs", len(results))

	rendered, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}
	fmt.Fprint(a.outW, string(rendered))
	return nil
}

// buildPipeline turns the loaded model into a live pipeline.
func (a *App) buildPipeline() (*pipeline.Pipeline, error) {
	var opts []pipeline.Option
	if a.model.MaxLoopsAllowed > 0 {
		opts = append(opts, pipeline.WithMaxLoops(a.model.MaxLoopsAllowed))
	}
	if a.model.Metadata != nil {
		opts = append(opts, pipeline.WithMetadata(a.model.Metadata))
	}
	p := pipeline.New(opts...)

	for _, c := range a.model.Components {
		instance, err := a.registry.Build(c.Type, c.Params)
		if err != nil {
			return nil, err
		}
		if err := p.AddComponent(c.Name, instance); err != nil {
			return nil, err
		}
	}
	for _, conn := range a.model.Connections {
		if err := p.Connect(conn.From, conn.To); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// draw prints the pipeline diagram in the requested notation.
func (a *App) draw(p *pipeline.Pipeline, format string) error {
	var rendered string
	var err error
	switch format {
	case "mermaid":
		rendered, err = draw.Mermaid(p)
	case "dot":
		rendered, err = draw.DOT(p)
	default:
		return fmt.Errorf("unknown draw format '%s': must be 'mermaid' or 'dot'", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(a.outW, rendered)
	return nil
}

// mergeInputs overlays caller-supplied inputs on the definition's input
// blocks.
func mergeInputs(fromModel, fromCaller map[string]map[string]any) map[string]map[string]any {
	merged := map[string]map[string]any{}
	for comp, values := range fromModel {
		merged[comp] = map[string]any{}
		for k, v := range values {
			merged[comp][k] = v
		}
	}
	for comp, values := range fromCaller {
		if merged[comp] == nil {
			merged[comp] = map[string]any{}
		}
		for k, v := range values {
			merged[comp][k] = v
		}
	}
	return merged
}
