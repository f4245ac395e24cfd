// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/spf13/afero"
)

var (
	// ErrUnknownTransformType is returned when no factory is registered for a type.
	ErrUnknownTransformType = errors.New("unknown transform type")
	// ErrTransformCreation is returned when a factory fails.
	ErrTransformCreation = errors.New("failed to create transform")
)

// Spec describes a transform in a job file or on the command line.
type Spec struct {
	Type      string            `yaml:"type" hcl:"type,label"`
	Exec      string            `yaml:"exec,omitempty" hcl:"exec,optional"`
	Args      []string          `yaml:"args,omitempty" hcl:"args,optional"`
	Extension string            `yaml:"extension,omitempty" hcl:"extension,optional"`
	Env       map[string]string `yaml:"env,omitempty" hcl:"env,optional"`
	Fallback  *FallbackSpec     `yaml:"fallback,omitempty" hcl:"fallback,block"`
}

// FallbackSpec is the alternate program of a command transform.
type FallbackSpec struct {
	Exec string   `yaml:"exec" hcl:"exec"`
	Args []string `yaml:"args,omitempty" hcl:"args,optional"`
}

// Factory builds a Transformer from a Spec.
type Factory func(spec Spec, fsys afero.Fs) (Transformer, error)

// Registry maps transform types to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows the built-in transforms.
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(SvgzName, newSvgzFromSpec)
	r.Register(CommandName, newCommandFromSpec)

	return r
}()

// Register adds or replaces the factory for typ.
func (r *Registry) Register(typ string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[typ] = f
}

// Types lists the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// New builds the transform described by spec. An empty type means svgz.
func (r *Registry) New(spec Spec, fsys afero.Fs) (Transformer, error) {
	if spec.Type == "" {
		spec.Type = SvgzName
	}

	r.mu.RLock()
	f, ok := r.factories[spec.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s (known: %v)", ErrUnknownTransformType, spec.Type, r.Types())
	}

	t, err := f(spec, fsys)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransformCreation, spec.Type, err)
	}

	return t, nil
}

// New builds a transform using DefaultRegistry.
func New(spec Spec, fsys afero.Fs) (Transformer, error) {
	return DefaultRegistry.New(spec, fsys)
}

func newSvgzFromSpec(_ Spec, fsys afero.Fs) (Transformer, error) {
	return NewSvgz(fsys), nil
}

func newCommandFromSpec(spec Spec, _ afero.Fs) (Transformer, error) {
	primary, err := NewInvocation(spec.Exec, spec.Args)
	if err != nil {
		return nil, err
	}

	var fallback *Invocation

	if spec.Fallback != nil {
		fallback, err = NewInvocation(spec.Fallback.Exec, spec.Fallback.Args)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
	}

	return NewCommand(primary, fallback, spec.Extension, spec.Env)
}
