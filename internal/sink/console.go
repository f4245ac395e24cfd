// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/svgbatch/internal/orchestrator"
)

// Console is the text sink used outside the TUI. Writes are serialised.
// As an orchestrator.Observer it shows the running batch in the terminal
// title and restores the title when the batch completes.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	surface HostSurface
	app     string
}

var (
	_ io.Writer             = (*Console)(nil)
	_ orchestrator.Observer = (*Console)(nil)
)

// NewConsole returns a Console writing to w. A nil surface means NopSurface.
func NewConsole(app string, w io.Writer, surface HostSurface) *Console {
	if surface == nil {
		surface = NopSurface{}
	}

	return &Console{w: w, surface: surface, app: app}
}

// Write implements io.Writer.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.w.Write(p)
}

// OnStarted implements orchestrator.Observer.
func (c *Console) OnStarted(o *orchestrator.Orchestrator) {
	c.surface.SetTitle(Title(c.app, o.Request))
}

// OnCompleted implements orchestrator.Observer.
func (c *Console) OnCompleted(*orchestrator.Orchestrator, bool) {
	c.surface.RestoreTitle()
}

// Title describes a running request in a few words.
func Title(app string, req orchestrator.Request) string {
	var what string

	switch {
	case req.Kind == orchestrator.KindFileList:
		what = fmt.Sprintf("%d files", len(req.Paths))
	case len(req.Paths) > 0:
		what = req.Paths[0]
	default:
		what = req.Kind.String()
	}

	return strings.TrimSpace(fmt.Sprintf("%s converting %s", app, what))
}
