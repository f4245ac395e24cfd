// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedInput is returned for a source the transform cannot read.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrInvalidDocument is returned when the source is not an SVG document.
	ErrInvalidDocument = errors.New("not an SVG document")
	// ErrNoArtifact is returned when a transform reported success but wrote nothing.
	ErrNoArtifact = errors.New("transform produced no artifact")
)

// Options are passed to a Transformer untouched by the batch engine.
type Options map[string]string

// Clone returns a copy that is safe to hand to another goroutine.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}

	return maps.Clone(o)
}

// Artifact describes what one Transform call produced.
type Artifact struct {
	Paths    []string
	Degraded bool // an alternate strategy was used
}

// Transformer converts one source file. Implementations are called from a
// single goroutine at a time.
type Transformer interface {
	Transform(ctx context.Context, source, outputDir string, opts Options) (*Artifact, error)
	Name() string
}

// TransformError is the per-item failure returned by every Transformer.
type TransformError struct {
	Source string
	Err    error
}

// NewTransformError wraps err for source.
func NewTransformError(source string, err error) *TransformError {
	return &TransformError{Source: source, Err: err}
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Source, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Stem is the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
