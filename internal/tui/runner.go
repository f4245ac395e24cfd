// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/svgbatch/internal/aggregator"
	"github.com/matt-FFFFFF/svgbatch/internal/orchestrator"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
)

// ErrNotStarted is returned by Run when the orchestrator refused the batch.
var ErrNotStarted = errors.New("conversion did not start")

// Runner manages the TUI application around one orchestrator batch.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	mutex    sync.Mutex
}

var _ orchestrator.Observer = (*Runner)(nil)

// Reporter implements progress.Reporter and forwards events to the TUI.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a new TUI progress reporter.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(ProgressEventMsg{Event: event})
}

// Close implements progress.Reporter.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	tr.closed = true
}

// NewRunner creates a new TUI runner. Without options the program uses the
// alternate screen.
func NewRunner(ctx context.Context, opts ...tea.ProgramOption) *Runner {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}

	model := NewModel(ctx)
	program := tea.NewProgram(model, opts...)

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewReporter(program),
	}
}

// Reporter returns the progress reporter to install on the orchestrator.
func (r *Runner) Reporter() progress.Reporter {
	return r.reporter
}

// OnStarted implements orchestrator.Observer.
func (r *Runner) OnStarted(o *orchestrator.Orchestrator) {
	src := o.Kind.String()
	if len(o.Paths) == 1 {
		src = o.Paths[0]
	}

	r.program.Send(BatchStartedMsg{Source: src})
}

// OnCompleted implements orchestrator.Observer.
func (r *Runner) OnCompleted(o *orchestrator.Orchestrator, successful bool) {
	r.program.Send(BatchCompletedMsg{
		Successful: successful,
		Cancelled:  o.State() == orchestrator.StateCompletedCancelled,
	})
}

// Run starts the TUI, converts with o writing the summary to sink, and
// returns once the user has left the TUI and the batch has completed.
// Leaving the TUI early cancels the batch.
func (r *Runner) Run(ctx context.Context, o *orchestrator.Orchestrator, sink io.Writer) (aggregator.Outcome, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.model.SetCanceller(o)
	o.Subscribe(r)

	defer o.Subscribe(nil)
	defer r.reporter.Close()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	if !o.Convert(ctx, sink) {
		r.program.Quit()
		<-tuiDone

		return aggregator.Outcome{}, errors.Join(ErrNotStarted, o.Validate())
	}

	done := o.Done()

	var tuiErr error

	select {
	case <-done:
		// Batch finished, the user leaves when ready.
		tuiErr = <-tuiDone

	case tuiErr = <-tuiDone:
		o.Cancel()

	case <-ctx.Done():
		o.Cancel()
		r.program.Quit()

		tuiErr = <-tuiDone
	}

	if errors.Is(tuiErr, tea.ErrProgramKilled) {
		tuiErr = nil
	}

	outcome, _ := o.Outcome()

	return outcome, tuiErr
}
