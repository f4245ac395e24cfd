// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package transform converts a single source document into output artifacts.
//
// The batch engine treats a Transformer as a black box: it hands over a source
// path, an output directory and opaque options, and receives the produced
// artifact paths plus a flag saying whether the transform had to fall back to
// an alternate strategy.
//
// Two implementations ship with the tool. Svgz packs .svg documents into
// gzip-compressed .svgz files and unpacks them again. Command runs an external
// converter such as rsvg-convert or inkscape, optionally retrying with a
// fallback program.
package transform
