// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
)

// File is a Source holding exactly one file.
type File struct {
	fs   afero.Fs
	path string
}

// NewFile returns a single file source. A nil fsys means FS.
func NewFile(fsys afero.Fs, path string) *File {
	return &File{fs: fsOrDefault(fsys), path: path}
}

// Validate implements Source.
func (f *File) Validate() error {
	return checkFile(f.fs, f.path)
}

// DefaultOutputDir implements Source.
func (f *File) DefaultOutputDir() string {
	return filepath.Dir(f.path)
}

// Items implements Source.
func (f *File) Items(cancelled func() bool) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if cancelled != nil && cancelled() {
			yield(Item{}, ErrCancelled)
			return
		}

		yield(Item{Kind: KindFile, Path: f.path, Rel: filepath.Base(f.path)}, nil)
	}
}

// Filesystem implements Source.
func (f *File) Filesystem() afero.Fs {
	return f.fs
}

func (f *File) String() string {
	return f.path
}

func checkFile(fsys afero.Fs, path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	return nil
}
