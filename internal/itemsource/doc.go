// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package itemsource enumerates the files a conversion batch should visit.
//
// A Source is one of three shapes: a single file, an explicit list of files,
// or a directory tree. Trees are listed one level at a time so that callers
// can stop between levels; files at a level are yielded before its
// subdirectories are entered (pre-order).
//
// All filesystem access goes through afero so tests can use an in-memory tree.
package itemsource
