// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrCommandNotFound is returned when an executable cannot be located.
var ErrCommandNotFound = errors.New("command not found")

// FindExecutable resolves command to an executable path. Names containing a
// path separator are checked as given; bare names are searched on PATH.
func FindExecutable(command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("%w: empty command", ErrCommandNotFound)
	}

	if strings.ContainsRune(command, os.PathSeparator) || strings.ContainsRune(command, '/') {
		if isExecutable(command) {
			return command, nil
		}

		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, command)
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		for _, name := range candidates(command) {
			p := filepath.Join(dir, name)
			if isExecutable(p) {
				return p, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCommandNotFound, command)
}

func candidates(command string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(command) != "" {
		return []string{command}
	}

	return []string{command, command + ".exe", command + ".bat", command + ".cmd"}
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	return runtime.GOOS == "windows" || info.Mode()&0o111 != 0
}
