package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/flowgraph/internal/ctxlog"
)

// Loader parses pipeline definition files written in HCL.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// pipelineBlock carries the pipeline-level settings.
type pipelineBlock struct {
	MaxLoopsAllowed *int     `hcl:"max_loops_allowed,optional"`
	Metadata        hcl.Body `hcl:",remain"`
}

// paramsBlock holds a component's constructor parameters as raw HCL
// attributes, evaluated later.
type paramsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// componentBlock declares one component instance.
type componentBlock struct {
	Type   string       `hcl:"type,label"`
	Name   string       `hcl:"name,label"`
	Params *paramsBlock `hcl:"params,block"`
}

// connectBlock declares one connection.
type connectBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// inputBlock seeds initial values for one component's input sockets.
type inputBlock struct {
	Component string   `hcl:"component,label"`
	Body      hcl.Body `hcl:",remain"`
}

// fileRoot decodes all top-level blocks from any definition file.
type fileRoot struct {
	Pipeline   *pipelineBlock    `hcl:"pipeline,block"`
	Components []*componentBlock `hcl:"component,block"`
	Connects   []*connectBlock   `hcl:"connect,block"`
	Inputs     []*inputBlock     `hcl:"input,block"`
}

// Load parses every definition file reachable from the given paths and
// merges them into one model. A path may be a single file or a
// directory searched for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findDefinitionFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered definition files.", "count", len(files))

	model := &Model{Inputs: map[string]map[string]any{}}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse file %s: %w", file, diags)
		}
		if err := l.mergeFile(hclFile.Body, model); err != nil {
			return nil, fmt.Errorf("failed to load file %s: %w", file, err)
		}
	}
	return model, nil
}

// LoadSource parses a single in-memory definition, mainly for tests.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	model := &Model{Inputs: map[string]map[string]any{}}
	if err := l.mergeFile(hclFile.Body, model); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return model, nil
}

// mergeFile decodes one file's blocks into the model.
func (l *Loader) mergeFile(body hcl.Body, model *Model) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}

	if root.Pipeline != nil {
		if root.Pipeline.MaxLoopsAllowed != nil {
			model.MaxLoopsAllowed = *root.Pipeline.MaxLoopsAllowed
		}
		metadata, err := bodyToMap(root.Pipeline.Metadata)
		if err != nil {
			return fmt.Errorf("pipeline metadata: %w", err)
		}
		if len(metadata) > 0 {
			if model.Metadata == nil {
				model.Metadata = map[string]any{}
			}
			for k, v := range metadata {
				model.Metadata[k] = v
			}
		}
	}

	for _, c := range root.Components {
		params := map[string]any{}
		if c.Params != nil {
			decoded, err := bodyToMap(c.Params.Body)
			if err != nil {
				return fmt.Errorf("component '%s' params: %w", c.Name, err)
			}
			params = decoded
		}
		model.Components = append(model.Components, ComponentConfig{
			Type:   c.Type,
			Name:   c.Name,
			Params: params,
		})
	}

	for _, c := range root.Connects {
		model.Connections = append(model.Connections, ConnectionConfig{From: c.From, To: c.To})
	}

	for _, in := range root.Inputs {
		values, err := bodyToMap(in.Body)
		if err != nil {
			return fmt.Errorf("input block for '%s': %w", in.Component, err)
		}
		if model.Inputs[in.Component] == nil {
			model.Inputs[in.Component] = map[string]any{}
		}
		for k, v := range values {
			model.Inputs[in.Component][k] = v
		}
	}
	return nil
}

// bodyToMap evaluates all attributes of a body into plain Go values.
func bodyToMap(body hcl.Body) (map[string]any, error) {
	if body == nil {
		return map[string]any{}, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", name, err)
		}
		out[name] = goVal
	}
	return out, nil
}

// findDefinitionFiles expands each path into the .hcl files it refers
// to: files are taken as-is, directories are searched recursively.
func findDefinitionFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".hcl") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl definition files found in %v", paths)
	}
	return files, nil
}
