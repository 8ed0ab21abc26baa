// Package fetch provides the link_fetch component: it retrieves the
// content behind a URL so downstream components can process it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgraph/internal/coerce"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/pipeline"
	"github.com/vk/flowgraph/internal/registry"
)

const defaultUserAgent = "flowgraph/LinkFetch"

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 8 << 20

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register plugs this package's component factories into the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("fetch.link_fetch", func(params map[string]any) (pipeline.Component, error) {
		timeout := 30
		if v, ok := params["timeout_seconds"]; ok {
			n, err := coerce.Int(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'timeout_seconds': %w", err)
			}
			timeout = n
		}
		userAgent := defaultUserAgent
		if v, ok := params["user_agent"]; ok {
			s, err := coerce.String(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'user_agent': %w", err)
			}
			userAgent = s
		}
		return NewLinkFetch(timeout, userAgent), nil
	})
}

// LinkFetch downloads the content behind a URL. The response body is
// emitted as text together with the HTTP status code.
type LinkFetch struct {
	timeoutSeconds int
	userAgent      string
	client         *http.Client
}

// NewLinkFetch creates the component with the given request timeout (in
// seconds) and User-Agent header.
func NewLinkFetch(timeoutSeconds int, userAgent string) *LinkFetch {
	return &LinkFetch{
		timeoutSeconds: timeoutSeconds,
		userAgent:      userAgent,
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// Inputs declares the component's input sockets.
func (l *LinkFetch) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("url", cty.String)}
}

// Outputs declares the component's output sockets.
func (l *LinkFetch) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{
		pipeline.NewOutput("content", cty.String),
		pipeline.NewOutput("status", cty.Number),
	}
}

// Run performs the HTTP GET and emits body text and status code.
func (l *LinkFetch) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	url, err := coerce.String(inputs["url"])
	if err != nil {
		return nil, fmt.Errorf("input 'url': %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	ctxlog.FromContext(ctx).Debug("Fetching link.", "url", url)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body of %q: %w", url, err)
	}

	return map[string]any{
		"content": string(body),
		"status":  resp.StatusCode,
	}, nil
}

// TypeName implements pipeline.Describable.
func (l *LinkFetch) TypeName() string { return "fetch.link_fetch" }

// InitParameters implements pipeline.Describable.
func (l *LinkFetch) InitParameters() map[string]any {
	return map[string]any{
		"timeout_seconds": l.timeoutSeconds,
		"user_agent":      l.userAgent,
	}
}
