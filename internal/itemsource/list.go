// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// List is a Source of explicitly named files, visited in the given order.
type List struct {
	fs       afero.Fs
	paths    []string
	distinct bool
}

// NewList returns a file list source. A nil fsys means FS.
func NewList(fsys afero.Fs, paths ...string) *List {
	return &List{fs: fsOrDefault(fsys), paths: slices.Clone(paths)}
}

// DistinctNames makes Validate reject entries sharing a base name. Use it when
// the files are written flat into one output directory.
func (l *List) DistinctNames() *List {
	l.distinct = true
	return l
}

// Validate implements Source. Every bad entry is reported, not just the first.
func (l *List) Validate() error {
	if len(l.paths) == 0 {
		return ErrEmptyList
	}

	var result error

	seen := make(map[string]string, len(l.paths))

	for _, p := range l.paths {
		if err := checkFile(l.fs, p); err != nil {
			result = multierror.Append(result, err)
		}

		if !l.distinct {
			continue
		}

		key := strings.ToLower(filepath.Base(p))
		if first, ok := seen[key]; ok {
			result = multierror.Append(result, fmt.Errorf("%w: %s and %s", ErrDuplicateName, first, p))
			continue
		}

		seen[key] = p
	}

	return result
}

// DefaultOutputDir implements Source. Artifacts go next to each source file.
func (l *List) DefaultOutputDir() string {
	return ""
}

// Items implements Source.
func (l *List) Items(cancelled func() bool) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if cancelled != nil && cancelled() {
			yield(Item{}, ErrCancelled)
			return
		}

		for _, p := range l.paths {
			if !yield(Item{Kind: KindFile, Path: p, Rel: filepath.Base(p)}, nil) {
				return
			}
		}
	}
}

// Filesystem implements Source.
func (l *List) Filesystem() afero.Fs {
	return l.fs
}

// Len is the number of files in the list.
func (l *List) Len() int {
	return len(l.paths)
}

func (l *List) String() string {
	if len(l.paths) == 1 {
		return l.paths[0]
	}

	return fmt.Sprintf("%d files", len(l.paths))
}
