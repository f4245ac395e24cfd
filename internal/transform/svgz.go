// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// SvgzName is the registry name of the gzip transform.
	SvgzName = "svgz"
	// OptionLevel selects the gzip level, 1 to 9.
	OptionLevel = "level"

	maxDocumentSize = 256 * 1024 * 1024
)

// ErrDocumentTooLarge is returned when an unpacked document exceeds the size limit.
var ErrDocumentTooLarge = fmt.Errorf("document exceeds %d bytes", maxDocumentSize)

var _ Transformer = (*Svgz)(nil)

// Svgz packs .svg into .svgz and unpacks .svgz into .svg.
// The document root must be an <svg> element either way.
type Svgz struct {
	fs afero.Fs
}

// NewSvgz returns an Svgz transform working on fsys, or the OS filesystem when fsys is nil.
func NewSvgz(fsys afero.Fs) *Svgz {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &Svgz{fs: fsys}
}

// Name implements Transformer.
func (s *Svgz) Name() string {
	return SvgzName
}

// Transform implements Transformer.
func (s *Svgz) Transform(ctx context.Context, source, outputDir string, opts Options) (*Artifact, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".svg":
		return s.pack(ctx, source, outputDir, opts)
	case ".svgz":
		return s.unpack(ctx, source, outputDir)
	default:
		return nil, NewTransformError(source, fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Ext(source)))
	}
}

func (s *Svgz) pack(ctx context.Context, source, outputDir string, opts Options) (*Artifact, error) {
	doc, err := afero.ReadFile(s.fs, source)
	if err != nil {
		return nil, NewTransformError(source, err)
	}

	if err := checkSVG(doc); err != nil {
		return nil, NewTransformError(source, err)
	}

	level, degraded := compressionLevel(opts)
	if degraded {
		ctxlog.Warn(ctx, "svgz", "detail", "invalid compression level, using default", "level", opts[OptionLevel], "source", source)
	}

	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, NewTransformError(source, err)
	}

	zw.Name = filepath.Base(source)

	if _, err := zw.Write(doc); err != nil {
		return nil, NewTransformError(source, err)
	}

	if err := zw.Close(); err != nil {
		return nil, NewTransformError(source, err)
	}

	out := filepath.Join(outputDir, Stem(source)+".svgz")
	if err := afero.WriteFile(s.fs, out, buf.Bytes(), 0o644); err != nil {
		return nil, NewTransformError(source, err)
	}

	ctxlog.Debug(ctx, "svgz", "detail", "packed", "source", source, "output", out, "in", len(doc), "out", buf.Len())

	return &Artifact{Paths: []string{out}, Degraded: degraded}, nil
}

func (s *Svgz) unpack(ctx context.Context, source, outputDir string) (*Artifact, error) {
	f, err := s.fs.Open(source)
	if err != nil {
		return nil, NewTransformError(source, err)
	}
	defer f.Close() //nolint:errcheck

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, NewTransformError(source, err)
	}
	defer zr.Close() //nolint:errcheck

	doc, err := io.ReadAll(io.LimitReader(zr, maxDocumentSize+1))
	if err != nil {
		return nil, NewTransformError(source, err)
	}

	if len(doc) > maxDocumentSize {
		return nil, NewTransformError(source, ErrDocumentTooLarge)
	}

	if err := checkSVG(doc); err != nil {
		return nil, NewTransformError(source, err)
	}

	out := filepath.Join(outputDir, Stem(source)+".svg")
	if err := afero.WriteFile(s.fs, out, doc, 0o644); err != nil {
		return nil, NewTransformError(source, err)
	}

	ctxlog.Debug(ctx, "svgz", "detail", "unpacked", "source", source, "output", out, "bytes", len(doc))

	return &Artifact{Paths: []string{out}}, nil
}

// compressionLevel reads OptionLevel. An unusable value falls back to the
// default level and reports degraded.
func compressionLevel(opts Options) (level int, degraded bool) {
	raw, ok := opts[OptionLevel]
	if !ok || raw == "" {
		return gzip.DefaultCompression, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < gzip.BestSpeed || n > gzip.BestCompression {
		return gzip.DefaultCompression, true
	}

	return n, false
}

// checkSVG reports whether the first element of doc is <svg>.
func checkSVG(doc []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: no root element", ErrInvalidDocument)
			}

			return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}

		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != "svg" {
				return fmt.Errorf("%w: root element is <%s>", ErrInvalidDocument, se.Name.Local)
			}

			return nil
		}
	}
}
