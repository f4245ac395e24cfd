// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSVG = `<?xml version="1.0"?>
<!-- drawn by hand -->
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func gz(t *testing.T, doc string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestSvgz_Pack(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/in/logo.svg", []byte(sampleSVG), 0o644))
	require.NoError(t, fsys.MkdirAll("/out", 0o755))

	art, err := NewSvgz(fsys).Transform(t.Context(), "/in/logo.svg", "/out", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/out/logo.svgz"}, art.Paths)
	assert.False(t, art.Degraded)

	f, err := fsys.Open("/out/logo.svgz")
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, "logo.svg", zr.Name)

	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, sampleSVG, string(got))
}

func TestSvgz_Unpack(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/in/icon.SVGZ", gz(t, sampleSVG), 0o644))

	art, err := NewSvgz(fsys).Transform(t.Context(), "/in/icon.SVGZ", "/in", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/icon.svg"}, art.Paths)

	got, err := afero.ReadFile(fsys, "/in/icon.svg")
	require.NoError(t, err)
	assert.Equal(t, sampleSVG, string(got))
}

func TestSvgz_CompressionLevel(t *testing.T) {
	tests := []struct {
		name         string
		level        string
		wantDegraded bool
	}{
		{name: "unset"},
		{name: "best", level: "9"},
		{name: "fastest", level: "1"},
		{name: "out of range", level: "12", wantDegraded: true},
		{name: "not a number", level: "max", wantDegraded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/a.svg", []byte(sampleSVG), 0o644))

			opts := Options{}
			if tt.level != "" {
				opts[OptionLevel] = tt.level
			}

			art, err := NewSvgz(fsys).Transform(t.Context(), "/a.svg", "/", opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDegraded, art.Degraded)
		})
	}
}

func TestSvgz_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/notes.txt", []byte("hello"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/html.svg", []byte("<html><body/></html>"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/empty.svg", nil, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/plain.svgz", []byte(sampleSVG), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/wrapped.svgz", gz(t, "<html/>"), 0o644))

	tests := []struct {
		source string
		want   error
	}{
		{source: "/notes.txt", want: ErrUnsupportedInput},
		{source: "/html.svg", want: ErrInvalidDocument},
		{source: "/empty.svg", want: ErrInvalidDocument},
		{source: "/wrapped.svgz", want: ErrInvalidDocument},
		{source: "/plain.svgz", want: gzip.ErrHeader},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := NewSvgz(fsys).Transform(t.Context(), tt.source, "/", nil)
			require.Error(t, err)

			var te *TransformError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.source, te.Source)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewSvgz(fsys).Transform(t.Context(), "/missing.svg", "/", nil)
	assert.ErrorIs(t, err, afero.ErrFileNotFound)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "logo", Stem("/a/b/logo.svg"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestOptionsClone(t *testing.T) {
	var nilOpts Options
	assert.Nil(t, nilOpts.Clone())

	o := Options{"a": "1"}
	c := o.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", o["a"])
}
