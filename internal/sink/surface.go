// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	osc          = "\x1b]0;"
	bel          = "\x07"
	pushTitle    = "\x1b[22;0t"
	restoreTitle = "\x1b[23;0t"
)

// HostSurface is the terminal state a sink may change outside its own output.
type HostSurface interface {
	SetTitle(title string)
	RestoreTitle()
}

// Terminal is a HostSurface that retitles a terminal window with xterm
// escape sequences. The previous title is pushed on first change and popped
// by RestoreTitle.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	pushed  bool
}

var _ HostSurface = (*Terminal)(nil)

// NewTerminal returns a surface for f. It does nothing unless f is a terminal.
func NewTerminal(f *os.File) *Terminal {
	return NewTerminalWriter(f, term.IsTerminal(int(f.Fd())))
}

// NewTerminalWriter returns a surface writing sequences to w when enabled.
func NewTerminalWriter(w io.Writer, enabled bool) *Terminal {
	return &Terminal{w: w, enabled: enabled}
}

// SetTitle implements HostSurface.
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	if !t.pushed {
		fmt.Fprint(t.w, pushTitle)
		t.pushed = true
	}

	fmt.Fprint(t.w, osc+sanitizeTitle(title)+bel)
}

// RestoreTitle implements HostSurface.
func (t *Terminal) RestoreTitle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled || !t.pushed {
		return
	}

	fmt.Fprint(t.w, restoreTitle)
	t.pushed = false
}

// sanitizeTitle drops control characters that would end the sequence early.
func sanitizeTitle(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}

		return r
	}, s)
}

// NopSurface ignores every change.
type NopSurface struct{}

// SetTitle implements HostSurface.
func (NopSurface) SetTitle(string) {}

// RestoreTitle implements HostSurface.
func (NopSurface) RestoreTitle() {}
