// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// IsHidden reports whether the entry at path is hidden: its name starts with
// a dot, or the platform marks it hidden.
func IsHidden(path string, info fs.FileInfo) bool {
	name := filepath.Base(path)
	if info != nil {
		name = info.Name()
	}

	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}

	return hasHiddenAttribute(info)
}
