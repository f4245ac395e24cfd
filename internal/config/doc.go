// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads conversion job files. A job names the sources, the
// output directory, the failure policy, transform options and the transform
// itself, and can be written in YAML or HCL. Job files are read from a local
// path or fetched with go-getter.
package config
