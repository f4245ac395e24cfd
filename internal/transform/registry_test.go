// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransform struct{}

func (stubTransform) Name() string { return "stub" }

func (stubTransform) Transform(context.Context, string, string, Options) (*Artifact, error) {
	return &Artifact{}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func(Spec, afero.Fs) (Transformer, error) { return stubTransform{}, nil })
	r.Register("broken", func(Spec, afero.Fs) (Transformer, error) { return nil, errors.New("nope") })

	assert.Equal(t, []string{"broken", "stub"}, r.Types())

	tr, err := r.New(Spec{Type: "stub"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stub", tr.Name())

	_, err = r.New(Spec{Type: "broken"}, nil)
	assert.ErrorIs(t, err, ErrTransformCreation)

	_, err = r.New(Spec{Type: "pdf"}, nil)
	assert.ErrorIs(t, err, ErrUnknownTransformType)
	assert.Contains(t, err.Error(), "known: [broken stub]")
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{CommandName, SvgzName}, DefaultRegistry.Types())

	tr, err := New(Spec{}, afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, SvgzName, tr.Name())

	_, err = New(Spec{Type: CommandName, Exec: "no-such-converter-anywhere"}, nil)
	assert.ErrorIs(t, err, ErrCommandNotFound)

	if runtime.GOOS == "windows" {
		return
	}

	tr, err = New(Spec{
		Type:      CommandName,
		Exec:      "cp",
		Args:      []string{"{{.Source}}", "{{.Output}}"},
		Extension: "png",
		Fallback:  &FallbackSpec{Exec: "cp"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, CommandName, tr.Name())

	_, err = New(Spec{Type: CommandName, Exec: "cp", Fallback: &FallbackSpec{Exec: "no-such-fallback"}}, nil)
	assert.ErrorIs(t, err, ErrCommandNotFound)
}
