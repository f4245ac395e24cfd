// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package itemsource

import "io/fs"

func hasHiddenAttribute(fs.FileInfo) bool {
	return false
}
