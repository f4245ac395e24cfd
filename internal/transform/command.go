// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
)

// CommandName is the registry name of the external command transform.
const CommandName = "command"

var (
	// ErrInvalidArgTemplate is returned when an argument template does not parse.
	ErrInvalidArgTemplate = errors.New("invalid argument template")
	// ErrMissingExtension is returned when no output extension is configured.
	ErrMissingExtension = errors.New("output extension is required")
)

var _ Transformer = (*Command)(nil)

// ArgData is the value argument templates are executed against.
//
//	--export-filename={{.Output}} {{.Source}}
//	-z {{index .Options "zoom"}}
type ArgData struct {
	Source    string  // source document
	OutputDir string  // directory the artifact goes in
	Output    string  // full artifact path
	Stem      string  // source base name without extension
	Ext       string  // artifact extension, with the dot
	Options   Options // batch options
}

// Invocation is one executable and its templated arguments.
type Invocation struct {
	path string
	args []*template.Template
	raw  []string
}

// NewInvocation resolves exec on PATH and parses args as templates.
func NewInvocation(exec string, args []string) (*Invocation, error) {
	path, err := FindExecutable(exec)
	if err != nil {
		return nil, err
	}

	inv := &Invocation{path: path, raw: args}

	for i, a := range args {
		t, err := template.New(fmt.Sprintf("arg%d", i)).Option("missingkey=zero").Parse(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArgTemplate, a, err)
		}

		inv.args = append(inv.args, t)
	}

	return inv, nil
}

// Path is the resolved executable.
func (inv *Invocation) Path() string {
	return inv.path
}

func (inv *Invocation) render(data ArgData) ([]string, error) {
	out := make([]string, 0, len(inv.args))

	for i, t := range inv.args {
		var sb strings.Builder
		if err := t.Execute(&sb, data); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArgTemplate, inv.raw[i], err)
		}

		out = append(out, sb.String())
	}

	return out, nil
}

func (inv *Invocation) run(ctx context.Context, data ArgData, env []string) error {
	args, err := inv.render(data)
	if err != nil {
		return err
	}

	res, err := runProcess(ctx, inv.path, args, env)
	if err != nil {
		return err
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s exited %d: %s",
			ErrNonZeroExit, filepath.Base(inv.path), res.ExitCode, res.LastErr)
	}

	if _, err := os.Stat(data.Output); err != nil {
		return fmt.Errorf("%w: %s", ErrNoArtifact, data.Output)
	}

	return nil
}

// Command converts a file by running an external program.
// When the primary invocation fails and a fallback is set, the fallback runs
// and a successful result is marked degraded.
type Command struct {
	primary   *Invocation
	fallback  *Invocation
	extension string
	env       []string
}

// NewCommand returns a Command transform writing artifacts with the given extension.
// fallback may be nil.
func NewCommand(primary, fallback *Invocation, extension string, env map[string]string) (*Command, error) {
	if extension == "" {
		return nil, ErrMissingExtension
	}

	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	environ := os.Environ()
	for k, v := range env {
		environ = append(environ, k+"="+v)
	}

	return &Command{
		primary:   primary,
		fallback:  fallback,
		extension: extension,
		env:       environ,
	}, nil
}

// Name implements Transformer.
func (c *Command) Name() string {
	return CommandName
}

// Transform implements Transformer.
func (c *Command) Transform(ctx context.Context, source, outputDir string, opts Options) (*Artifact, error) {
	stem := Stem(source)
	data := ArgData{
		Source:    source,
		OutputDir: outputDir,
		Output:    filepath.Join(outputDir, stem+c.extension),
		Stem:      stem,
		Ext:       c.extension,
		Options:   opts,
	}

	err := c.primary.run(ctx, data, c.env)
	if err == nil {
		return &Artifact{Paths: []string{data.Output}}, nil
	}

	if c.fallback == nil || ctx.Err() != nil {
		return nil, NewTransformError(source, err)
	}

	ctxlog.Warn(ctx, "command", "detail", "primary converter failed, trying fallback",
		"source", source, "error", err, "fallback", filepath.Base(c.fallback.path))

	if ferr := c.fallback.run(ctx, data, c.env); ferr != nil {
		return nil, NewTransformError(source, errors.Join(err, ferr))
	}

	return &Artifact{Paths: []string{data.Output}, Degraded: true}, nil
}
