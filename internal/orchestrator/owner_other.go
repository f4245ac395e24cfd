// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package orchestrator

import "io/fs"

func owner(fs.FileInfo) (uid, gid int, ok bool) {
	return 0, 0, false
}
