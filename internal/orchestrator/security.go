// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrCopySecurity is returned when attributes cannot be copied to an artifact.
var ErrCopySecurity = errors.New("cannot copy security attributes")

// copySecurity makes dst carry src's permission bits, modification time and,
// where the platform exposes it, owner and group.
func copySecurity(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopySecurity, err)
	}

	var errs []error

	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		errs = append(errs, err)
	}

	if uid, gid, ok := owner(info); ok {
		if err := fsys.Chown(dst, uid, gid); err != nil {
			errs = append(errs, err)
		}
	}

	if err := fsys.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrCopySecurity, errors.Join(errs...))
	}

	return nil
}
