// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"maps"

	"github.com/matt-FFFFFF/svgbatch/internal/orchestrator"
	"github.com/matt-FFFFFF/svgbatch/internal/transform"
	"github.com/spf13/afero"
)

// ErrNoPaths is returned when a job names no source paths.
var ErrNoPaths = errors.New("no source paths given")

// Job is one conversion job.
type Job struct {
	Source          Source            `yaml:"source" hcl:"source,block"`
	Output          string            `yaml:"output,omitempty" hcl:"output,optional"`
	ContinueOnError bool              `yaml:"continue_on_error,omitempty" hcl:"continue_on_error,optional"`
	Options         map[string]string `yaml:"options,omitempty" hcl:"options,optional"`
	Transform       *transform.Spec   `yaml:"transform,omitempty" hcl:"transform,block"`
}

// Source selects the files a job converts. One directory path makes a
// directory tree request, one file path a single file request, and several
// paths a file list.
type Source struct {
	Paths           []string `yaml:"paths" hcl:"paths"`
	Recursive       bool     `yaml:"recursive,omitempty" hcl:"recursive,optional"`
	IncludeHidden   bool     `yaml:"include_hidden,omitempty" hcl:"include_hidden,optional"`
	IncludeSecurity bool     `yaml:"include_security,omitempty" hcl:"include_security,optional"`
	Extensions      []string `yaml:"extensions,omitempty" hcl:"extensions,optional"`
}

// TransformSpec returns the job's transform, defaulting to svgz.
func (j *Job) TransformSpec() transform.Spec {
	if j.Transform == nil {
		return transform.Spec{Type: transform.SvgzName}
	}

	return *j.Transform
}

// Request builds the orchestrator request for the job. fsys decides whether
// a single path is a directory.
func (j *Job) Request(fsys afero.Fs) (orchestrator.Request, error) {
	req, err := BuildRequest(fsys, j.Source)
	if err != nil {
		return orchestrator.Request{}, err
	}

	req.OutputDir = j.Output
	req.ContinueOnError = j.ContinueOnError
	req.Options = maps.Clone(j.Options)

	return req, nil
}

// BuildRequest chooses the request kind for src. A single path that cannot be
// inspected becomes a single file request so that validation reports it.
func BuildRequest(fsys afero.Fs, src Source) (orchestrator.Request, error) {
	switch len(src.Paths) {
	case 0:
		return orchestrator.Request{}, ErrNoPaths
	case 1:
		p := src.Paths[0]

		if isDir, err := afero.IsDir(fsys, p); err == nil && isDir {
			return orchestrator.DirectoryTree(p, src.Recursive, src.IncludeHidden, src.IncludeSecurity), nil
		}

		return orchestrator.SingleFile(p), nil
	default:
		return orchestrator.FileList(src.Paths...), nil
	}
}
