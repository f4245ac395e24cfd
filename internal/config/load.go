// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var (
	// ErrReadJob is returned when a job file cannot be read.
	ErrReadJob = errors.New("failed to read job file")
	// ErrParseYAML is returned when a YAML job cannot be decoded.
	ErrParseYAML = errors.New("failed to parse YAML job")
	// ErrParseHCL is returned when an HCL job cannot be decoded.
	ErrParseHCL = errors.New("failed to parse HCL job")
	// ErrUnknownFormat is returned for a job file whose extension is neither YAML nor HCL.
	ErrUnknownFormat = errors.New("unknown job file format")
)

const hclExt = ".hcl"

// Load reads the job at location. A location that exists on FsFactory's
// filesystem is read directly, anything else is fetched with go-getter.
func Load(ctx context.Context, location string) (*Job, error) {
	name, data, err := read(ctx, location)
	if err != nil {
		return nil, err
	}

	return Parse(name, data)
}

func read(ctx context.Context, location string) (string, []byte, error) {
	if location == "" {
		return "", nil, ErrReadJob
	}

	fs := FsFactory()

	if ok, _ := afero.Exists(fs, location); ok {
		data, err := afero.ReadFile(fs, location)
		if err != nil {
			return "", nil, errors.Join(ErrReadJob, err)
		}

		return location, data, nil
	}

	return Fetch(ctx, location)
}

// Parse decodes data as YAML or HCL by the extension of name.
func Parse(name string, data []byte) (*Job, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case hclExt:
		return ParseHCL(name, data, environ())
	case ".yaml", ".yml", "":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// ParseYAML decodes a YAML job. Unknown fields are errors.
func ParseYAML(data []byte) (*Job, error) {
	job := new(Job)

	if err := yaml.UnmarshalWithOptions(data, job, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrParseYAML, err)
	}

	return job, nil
}

// ParseHCL decodes an HCL job. The env object holds the given environment
// variables and a few string functions are available.
func ParseHCL(filename string, data []byte, env map[string]string) (*Job, error) {
	if !strings.HasSuffix(filename, hclExt) {
		filename += hclExt
	}

	job := new(Job)

	if err := hclsimple.Decode(filename, data, evalContext(env), job); err != nil {
		return nil, errors.Join(ErrParseHCL, err)
	}

	return job, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}

	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
		},
	}
}

func environ() map[string]string {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}

	return env
}
