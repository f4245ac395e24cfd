// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"slices"

	"github.com/matt-FFFFFF/svgbatch/internal/transform"
)

// Kind selects the shape of a Request.
type Kind int

const (
	// KindSingleFile converts one file.
	KindSingleFile Kind = iota
	// KindFileList converts an explicit list of files.
	KindFileList
	// KindDirectoryTree converts the matching files of a directory.
	KindDirectoryTree
)

func (k Kind) String() string {
	switch k {
	case KindSingleFile:
		return "file"
	case KindFileList:
		return "list"
	case KindDirectoryTree:
		return "directory"
	default:
		return "unknown"
	}
}

// Request describes what a batch converts and how.
type Request struct {
	Kind Kind
	// Paths holds the file, the files or the directory root, depending on Kind.
	Paths []string
	// Recursive descends into subdirectories. Directory trees only.
	Recursive bool
	// IncludeHidden visits hidden files and directories. Directory trees only.
	IncludeHidden bool
	// IncludeSecurity copies permissions, ownership and timestamps from each
	// source to its artifacts and mirrored directories. Directory trees only.
	IncludeSecurity bool
	// OutputDir is where artifacts are written. Empty means the default for the
	// shape: the file's directory, next to each listed file, or the tree root.
	OutputDir string
	// ContinueOnError keeps going after a failed file instead of aborting the batch.
	ContinueOnError bool
	// Options are passed to the transform unchanged.
	Options transform.Options
}

// SingleFile returns a request for one file.
func SingleFile(path string) Request {
	return Request{Kind: KindSingleFile, Paths: []string{path}}
}

// FileList returns a request for the given files, converted in order.
func FileList(paths ...string) Request {
	return Request{Kind: KindFileList, Paths: slices.Clone(paths)}
}

// DirectoryTree returns a request for the files under root.
func DirectoryTree(root string, recursive, includeHidden, includeSecurity bool) Request {
	return Request{
		Kind:            KindDirectoryTree,
		Paths:           []string{root},
		Recursive:       recursive,
		IncludeHidden:   includeHidden,
		IncludeSecurity: includeSecurity,
	}
}

func (r Request) clone() Request {
	c := r
	c.Paths = slices.Clone(r.Paths)
	c.Options = r.Options.Clone()

	return c
}
