// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package itemsource

import (
	"io/fs"
	"syscall"
)

func hasHiddenAttribute(info fs.FileInfo) bool {
	if info == nil {
		return false
	}

	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || attrs == nil {
		return false
	}

	return attrs.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0
}
