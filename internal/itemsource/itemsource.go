// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"errors"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when a source path does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrNotFile is returned when a path that must be a file is a directory.
	ErrNotFile = errors.New("source is a directory, expected a file")
	// ErrNotDirectory is returned when a tree root is not a directory.
	ErrNotDirectory = errors.New("source is not a directory")
	// ErrEmptyList is returned for a file list without entries.
	ErrEmptyList = errors.New("file list is empty")
	// ErrEmptyPath is returned for an empty source path.
	ErrEmptyPath = errors.New("source path is empty")
	// ErrListDirectory is returned when a directory level cannot be read.
	ErrListDirectory = errors.New("cannot list directory")
	// ErrDuplicateName is returned when two list entries would write the same artifact.
	ErrDuplicateName = errors.New("files share a name in a flat output directory")
	// ErrCancelled is yielded when the cancellation check fires between levels.
	ErrCancelled = errors.New("enumeration cancelled")
)

// FS is the filesystem used by sources created with a nil afero.Fs.
var FS afero.Fs = afero.NewOsFs()

// DefaultExtensions is the allow-list applied to directory trees.
var DefaultExtensions = []string{".svg", ".svgz"}

// Kind says whether an Item is a file to convert or a directory being entered.
type Kind int

const (
	// KindFile is a file to hand to the transform.
	KindFile Kind = iota
	// KindDirectory is a subdirectory about to be descended into.
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}

	return "file"
}

// Item is one step of an enumeration.
type Item struct {
	Kind Kind
	// Path is the source path as it should be opened.
	Path string
	// Rel is Path relative to the source root. For single files and lists it is the base name.
	Rel string
}

// OutputDir is where artifacts for a file item belong, given the batch output directory.
// An empty base means "next to the source file".
func (i Item) OutputDir(base string) string {
	if base == "" {
		return filepath.Dir(i.Path)
	}

	return filepath.Join(base, filepath.Dir(i.Rel))
}

// MirrorDir is the output directory that mirrors a directory item.
func (i Item) MirrorDir(base string) string {
	if base == "" {
		return i.Path
	}

	return filepath.Join(base, i.Rel)
}

// Source is a lazily enumerated set of items.
type Source interface {
	// Validate performs the synchronous existence and shape checks.
	Validate() error
	// DefaultOutputDir is the output directory used when the caller sets none.
	// The empty string means each artifact goes next to its source file.
	DefaultOutputDir() string
	// Items enumerates the source. cancelled is polled between directory levels;
	// when it reports true the sequence yields ErrCancelled and stops.
	Items(cancelled func() bool) iter.Seq2[Item, error]
	// Filesystem returns the filesystem the source reads from.
	Filesystem() afero.Fs
	String() string
}

func fsOrDefault(fsys afero.Fs) afero.Fs {
	if fsys == nil {
		return FS
	}

	return fsys
}

// Filter decides which directory entries a tree yields.
type Filter struct {
	// Extensions is matched case-insensitively against the file extension, including the dot.
	Extensions []string
	// IncludeHidden keeps hidden files and directories.
	IncludeHidden bool
	// Exclude lists directories a tree never yields or descends into,
	// written in the same form as the tree root.
	Exclude []string
}

// Excluded reports whether dir is one of the excluded directories.
func (f Filter) Excluded(dir string) bool {
	dir = filepath.Clean(dir)

	return slices.ContainsFunc(f.Exclude, func(e string) bool {
		return filepath.Clean(e) == dir
	})
}

// NestedDir reports whether dir lies strictly inside root. The returned path
// is dir rewritten relative to root's form, ready for Filter.Exclude.
func NestedDir(root, dir string) (string, bool) {
	if root == "" || dir == "" {
		return "", false
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return filepath.Join(root, rel), true
}

// MatchExtension reports whether name carries one of the allowed extensions.
func (f Filter) MatchExtension(name string) bool {
	exts := f.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	ext := filepath.Ext(name)

	return slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(normaliseExt(e), ext)
	})
}

func normaliseExt(e string) string {
	if e == "" || strings.HasPrefix(e, ".") {
		return e
	}

	return "." + e
}
