// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/matt-FFFFFF/svgbatch/internal/progress"
	"github.com/schollz/progressbar/v3"
)

const spinnerType = 14

// Spinner is a progress.Listener that renders an indeterminate bar counting
// visited files.
type Spinner struct {
	bar    *progressbar.ProgressBar
	failed int
}

var _ progress.Listener = (*Spinner)(nil)

// NewSpinner renders to w, usually stderr.
func NewSpinner(w io.Writer, description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)

	return &Spinner{bar: bar}
}

// OnEvent implements progress.Listener.
func (s *Spinner) OnEvent(e progress.Event) {
	switch e.Type {
	case progress.EventItemStarted:
		s.bar.Describe(filepath.Base(e.Path))
	case progress.EventItemConverted:
		_ = s.bar.Add(1)
	case progress.EventItemFailed:
		s.failed++
		_ = s.bar.Add(1)
	case progress.EventBatchCompleted:
		s.bar.Describe(fmt.Sprintf("%s (%d failed)", e.Message, s.failed))
		_ = s.bar.Finish()
	}
}
