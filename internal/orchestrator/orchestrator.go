// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/svgbatch/internal/aggregator"
	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/svgbatch/internal/executor"
	"github.com/matt-FFFFFF/svgbatch/internal/itemsource"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
	"github.com/matt-FFFFFF/svgbatch/internal/transform"
	"github.com/spf13/afero"
)

// DefaultPumpInterval is how often Cancel calls the pump while it waits.
const DefaultPumpInterval = 50 * time.Millisecond

// State is the lifecycle position of an Orchestrator.
type State int32

const (
	// StateIdle means no batch is running.
	StateIdle State = iota
	// StateRunning means a batch has been started and not yet completed.
	StateRunning
	// StateCompletedSuccess is held while completion of a successful batch is delivered.
	StateCompletedSuccess
	// StateCompletedFailure is held while completion of a failed batch is delivered.
	StateCompletedFailure
	// StateCompletedCancelled is held while completion of a cancelled batch is delivered.
	StateCompletedCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompletedSuccess:
		return "completed-success"
	case StateCompletedFailure:
		return "completed-failure"
	case StateCompletedCancelled:
		return "completed-cancelled"
	default:
		return "unknown"
	}
}

// Option configures an Orchestrator.
type Option func(o *Orchestrator)

// WithFs sets the filesystem sources are read from and directories are created on.
func WithFs(fsys afero.Fs) Option {
	return func(o *Orchestrator) {
		o.fs = fsys
	}
}

// WithReporter receives structured per-file events.
func WithReporter(r progress.Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithPump installs the function Cancel calls while it waits, every interval.
// A zero interval means DefaultPumpInterval.
func WithPump(pump func(), interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.pump = pump
		if interval > 0 {
			o.pumpInterval = interval
		}
	}
}

// WithExtensions replaces the allow-list used for directory trees.
func WithExtensions(exts ...string) Option {
	return func(o *Orchestrator) {
		o.extensions = exts
	}
}

// Orchestrator runs conversion batches for one Request.
//
// The embedded Request may be changed between batches, not while one runs.
type Orchestrator struct {
	Request

	transformer  transform.Transformer
	fs           afero.Fs
	extensions   []string
	reporter     progress.Reporter
	pump         func()
	pumpInterval time.Duration

	obsMu    sync.Mutex
	observer Observer

	state atomic.Int32
	exec  *executor.Executor[*aggregator.Aggregator]
	agg   *aggregator.Aggregator

	batchMu sync.Mutex
	batch   *batch

	outMu      sync.Mutex
	outcome    aggregator.Outcome
	hasOutcome bool
}

// batch is the per-Convert state shared between the caller and the worker.
type batch struct {
	ctx       context.Context
	req       Request
	src       itemsource.Source
	outputDir string
	sink      io.Writer
	notified  chan struct{} // closed after OnStarted returned
}

// New returns an idle orchestrator for req that converts files with t.
func New(req Request, t transform.Transformer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Request:      req,
		transformer:  t,
		reporter:     progress.NewNullReporter(),
		pumpInterval: DefaultPumpInterval,
		agg:          aggregator.New(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.fs == nil {
		o.fs = itemsource.FS
	}

	o.exec = executor.New(o.progressLine, o.completed)

	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Running reports whether a batch is in flight.
func (o *Orchestrator) Running() bool {
	return o.State() == StateRunning
}

// Outcome returns the result of the most recent batch. ok is false while a
// batch runs or before the first one completed.
func (o *Orchestrator) Outcome() (aggregator.Outcome, bool) {
	if o.Running() {
		return aggregator.Outcome{}, false
	}

	o.outMu.Lock()
	defer o.outMu.Unlock()

	if !o.hasOutcome {
		return aggregator.Outcome{}, false
	}

	return o.outcome.Clone(), true
}

// Done is closed when the most recent batch has written its summary.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.exec.Done()
}

// Validate checks the current Request without starting anything.
func (o *Orchestrator) Validate() error {
	_, err := o.source(o.Request)
	return err
}

func (o *Orchestrator) source(req Request) (itemsource.Source, error) {
	if o.transformer == nil {
		return nil, setupError(ErrNoTransform)
	}

	var src itemsource.Source

	switch req.Kind {
	case KindSingleFile:
		if len(req.Paths) != 1 {
			return nil, setupError(fmt.Errorf("%w: %s needs 1, got %d", ErrPathCount, req.Kind, len(req.Paths)))
		}

		src = itemsource.NewFile(o.fs, req.Paths[0])
	case KindFileList:
		l := itemsource.NewList(o.fs, req.Paths...)
		if req.OutputDir != "" {
			l.DistinctNames()
		}

		src = l
	case KindDirectoryTree:
		if len(req.Paths) != 1 {
			return nil, setupError(fmt.Errorf("%w: %s needs 1, got %d", ErrPathCount, req.Kind, len(req.Paths)))
		}

		filter := itemsource.Filter{
			Extensions:    o.extensions,
			IncludeHidden: req.IncludeHidden,
		}

		// An output directory inside the root is never walked.
		if out, ok := itemsource.NestedDir(req.Paths[0], req.OutputDir); ok {
			filter.Exclude = append(filter.Exclude, out)
		}

		src = itemsource.NewTree(o.fs, req.Paths[0], req.Recursive, filter)
	default:
		return nil, setupError(fmt.Errorf("%w: %d", ErrUnknownKind, req.Kind))
	}

	if err := src.Validate(); err != nil {
		return nil, setupError(err)
	}

	return src, nil
}

// Convert validates the request and starts a batch that writes its progress
// and summary to sink. It returns false, without starting anything, when sink
// is nil, the request is invalid, the output directory cannot be created, or
// a batch is already running. Otherwise OnStarted has been delivered and the
// batch continues after Convert returns true.
func (o *Orchestrator) Convert(ctx context.Context, sink io.Writer) bool {
	if sink == nil {
		ctxlog.Error(ctx, "convert", "error", setupError(ErrNilSink))
		return false
	}

	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		ctxlog.Warn(ctx, "convert", "detail", "a batch is already running, request rejected", "state", o.State().String())
		return false
	}

	b, err := o.prepare(ctx, sink)
	if err != nil {
		ctxlog.Error(ctx, "convert", "error", err)
		o.state.Store(int32(StateIdle))

		return false
	}

	o.agg.Reset(b.src.String(), b.outputDir)

	o.batchMu.Lock()
	o.batch = b
	o.batchMu.Unlock()

	o.reporter.Report(progress.New(progress.EventBatchStarted, b.src.String(), "conversion started"))

	if err := o.exec.Start(ctx, func(ctx context.Context, c executor.Control) (*aggregator.Aggregator, error) {
		return o.agg, o.run(ctx, c, b)
	}); err != nil {
		ctxlog.Error(ctx, "convert", "error", err)
		o.state.Store(int32(StateIdle))

		return false
	}

	ctxlog.Info(ctx, "convert", "detail", "batch started", "source", b.src.String(), "output", b.outputDir)

	if obs := o.currentObserver(); obs != nil {
		obs.OnStarted(o)
	}

	close(b.notified)

	return true
}

func (o *Orchestrator) prepare(ctx context.Context, sink io.Writer) (*batch, error) {
	req := o.Request.clone()
	if req.Kind != KindDirectoryTree {
		req.IncludeSecurity = false
	}

	src, err := o.source(req)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = src.DefaultOutputDir()
	}

	if outputDir != "" {
		if err := o.fs.MkdirAll(outputDir, 0o755); err != nil {
			return nil, setupError(fmt.Errorf("%w: %s: %w", ErrOutputDir, outputDir, err))
		}
	}

	return &batch{
		ctx:       ctx,
		req:       req,
		src:       src,
		outputDir: outputDir,
		sink:      sink,
		notified:  make(chan struct{}),
	}, nil
}

func (o *Orchestrator) currentBatch() *batch {
	o.batchMu.Lock()
	defer o.batchMu.Unlock()

	return o.batch
}

// progressLine writes a progress message to the sink. It runs on the
// executor's forwarding goroutine.
func (o *Orchestrator) progressLine(msg string) {
	b := o.currentBatch()
	if b == nil {
		return
	}

	if _, err := fmt.Fprintln(b.sink, msg); err != nil {
		ctxlog.Warn(b.ctx, "progress", "detail", "cannot write to sink", "error", err)
	}
}

// completed is the executor's completion callback.
func (o *Orchestrator) completed(err error, cancelled bool, agg *aggregator.Aggregator) {
	b := o.currentBatch()
	<-b.notified

	if agg == nil {
		agg = o.agg
	}

	outcome := agg.Finalize(err, cancelled)

	o.outMu.Lock()
	o.outcome = outcome
	o.hasOutcome = true
	o.outMu.Unlock()

	next := StateCompletedSuccess

	switch outcome.Status {
	case aggregator.StatusCancelled:
		next = StateCompletedCancelled
	case aggregator.StatusFailed:
		next = StateCompletedFailure
	}

	o.state.Store(int32(next))

	logger := ctxlog.Logger(b.ctx).With("batch", outcome.BatchID)
	logger.Info("batch completed",
		"status", outcome.Status.String(),
		"converted", outcome.Converted,
		"failed", len(outcome.FailedItems),
		"duration", outcome.Duration().String())

	if err != nil {
		logger.Error("batch ended with error", "error", err)
	}

	if agg.Err() != nil {
		logger.Debug("per-file errors", "error", agg.Err())
	}

	done := progress.New(progress.EventBatchCompleted, b.src.String(), outcome.Status.String())
	done.Data.Error = err
	o.reporter.Report(done)

	if obs := o.currentObserver(); obs != nil {
		obs.OnCompleted(o, outcome.Successful())
	}

	if werr := aggregator.WriteSummary(b.sink, outcome); werr != nil {
		logger.Warn("summary", "error", werr)
	}

	o.state.Store(int32(StateIdle))
}

// CancelAsync requests cancellation and returns immediately.
func (o *Orchestrator) CancelAsync() {
	o.exec.CancelAsync()
}

// Cancel requests cancellation and blocks until the batch has completed and
// its summary is written. It returns at once when no batch is running.
func (o *Orchestrator) Cancel() {
	_ = o.CancelWait(context.Background())
}

// CancelWait is Cancel bounded by ctx. While it waits it calls the pump
// installed with WithPump.
func (o *Orchestrator) CancelWait(ctx context.Context) error {
	if o.State() == StateIdle {
		return nil
	}

	o.exec.CancelAsync()

	if err := o.exec.Wait(ctx, o.pump, o.pumpInterval); err != nil {
		return errors.Join(ErrCancelTimeout, err)
	}

	return nil
}
