// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
)

// Tree is a Source rooted at a directory.
type Tree struct {
	fs        afero.Fs
	root      string
	recursive bool
	filter    Filter
}

// NewTree returns a directory source. A nil fsys means FS.
func NewTree(fsys afero.Fs, root string, recursive bool, filter Filter) *Tree {
	return &Tree{
		fs:        fsOrDefault(fsys),
		root:      root,
		recursive: recursive,
		filter:    filter,
	}
}

// Validate implements Source.
func (t *Tree) Validate() error {
	if t.root == "" {
		return ErrEmptyPath
	}

	info, err := t.fs.Stat(t.root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, t.root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, t.root)
	}

	return nil
}

// DefaultOutputDir implements Source. Artifacts go next to their sources.
func (t *Tree) DefaultOutputDir() string {
	return t.root
}

// Root is the directory the tree starts at.
func (t *Tree) Root() string {
	return t.root
}

// Items implements Source.
//
// Each level is listed with a single non-recursive ReadDir. Matching files are
// yielded first, in name order. When the tree is recursive every surviving
// subdirectory is then yielded as a KindDirectory item and walked in turn.
func (t *Tree) Items(cancelled func() bool) iter.Seq2[Item, error] {
	if cancelled == nil {
		cancelled = func() bool { return false }
	}

	return func(yield func(Item, error) bool) {
		t.walk(t.root, "", cancelled, yield)
	}
}

func (t *Tree) walk(dir, rel string, cancelled func() bool, yield func(Item, error) bool) bool {
	if cancelled() {
		yield(Item{}, ErrCancelled)
		return false
	}

	entries, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		yield(Item{}, fmt.Errorf("%w: %s: %w", ErrListDirectory, dir, err))
		return false
	}

	if cancelled() {
		yield(Item{}, ErrCancelled)
		return false
	}

	var subdirs []fs.FileInfo

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())

		if !t.filter.IncludeHidden && IsHidden(full, e) {
			continue
		}

		if e.IsDir() {
			if t.recursive && !t.filter.Excluded(full) {
				subdirs = append(subdirs, e)
			}

			continue
		}

		if !e.Mode().IsRegular() || !t.filter.MatchExtension(e.Name()) {
			continue
		}

		if !yield(Item{Kind: KindFile, Path: full, Rel: filepath.Join(rel, e.Name())}, nil) {
			return false
		}
	}

	for _, d := range subdirs {
		item := Item{
			Kind: KindDirectory,
			Path: filepath.Join(dir, d.Name()),
			Rel:  filepath.Join(rel, d.Name()),
		}

		if !yield(item, nil) {
			return false
		}

		if !t.walk(item.Path, item.Rel, cancelled, yield) {
			return false
		}
	}

	return true
}

// Filesystem implements Source.
func (t *Tree) Filesystem() afero.Fs {
	return t.fs
}

func (t *Tree) String() string {
	return t.root
}
