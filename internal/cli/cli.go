// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/flowgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// setFlags collects repeated -set flags.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ", ") }

func (s *setFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("flowgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowgraph - a socket-wired pipeline runner.

Usage:
  flowgraph [options] PIPELINE_PATH

Arguments:
  PIPELINE_PATH
    Path to a single .hcl definition file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline definition file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline definition file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text', 'json' or 'pretty'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	drawFlag := flagSet.String("draw", "", "Print the pipeline diagram instead of running. Options: 'mermaid' or 'dot'.")
	var sets setFlags
	flagSet.Var(&sets, "set", "Seed an initial input as component.socket=value (repeatable).")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "pretty":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text', 'json' or 'pretty'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	drawFormat := strings.ToLower(*drawFlag)
	switch drawFormat {
	case "", "mermaid", "dot":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid draw format: must be 'mermaid' or 'dot'"}
	}

	inputs, err := parseSets(sets)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return &app.Config{
		PipelinePath: path,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		DrawFormat:   drawFormat,
		Inputs:       inputs,
	}, false, nil
}

// parseSets turns repeated "component.socket=value" flags into the
// nested input mapping the engine expects. Values are inferred as int,
// float, bool or string, in that order.
func parseSets(sets []string) (map[string]map[string]any, error) {
	inputs := map[string]map[string]any{}
	for _, s := range sets {
		key, raw, found := strings.Cut(s, "=")
		if !found {
			return nil, fmt.Errorf("invalid -set %q: expected component.socket=value", s)
		}
		component, socket, found := strings.Cut(key, ".")
		if !found || component == "" || socket == "" {
			return nil, fmt.Errorf("invalid -set %q: expected component.socket=value", s)
		}
		if inputs[component] == nil {
			inputs[component] = map[string]any{}
		}
		inputs[component][socket] = inferValue(raw)
	}
	return inputs, nil
}

func inferValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
