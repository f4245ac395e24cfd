// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
)

const progressBuffer = 64

var (
	// ErrBusy is returned by Start while a previous run has not completed.
	ErrBusy = errors.New("executor is busy")
	// ErrCancelled is returned by work that stopped because cancellation was requested.
	ErrCancelled = errors.New("cancelled")
)

// WorkPanicError is delivered to the completion callback when work panics.
type WorkPanicError struct {
	Value any
	Stack []byte
}

// NewWorkPanicError wraps a recovered panic value.
func NewWorkPanicError(v any) *WorkPanicError {
	return &WorkPanicError{Value: v, Stack: debug.Stack()}
}

func (e *WorkPanicError) Error() string {
	return fmt.Sprintf("work panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *WorkPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// Control is the view of the executor handed to running work.
type Control interface {
	CancellationPending() bool
	ReportProgress(msg string)
}

// Work is the function run in the background.
type Work[R any] func(ctx context.Context, c Control) (R, error)

// CompletedFunc receives the result of a run. err is nil when cancelled is true.
type CompletedFunc[R any] func(err error, cancelled bool, result R)

// ProgressFunc receives progress messages, in order, on the forwarding goroutine.
type ProgressFunc func(msg string)

// Executor runs Work on its own goroutine.
type Executor[R any] struct {
	onProgress  ProgressFunc
	onCompleted CompletedFunc[R]

	running atomic.Bool
	cancel  atomic.Bool

	mu       sync.Mutex // guards progress
	progress chan string

	doneMu sync.Mutex
	done   chan struct{}
}

// New returns an idle executor. Either callback may be nil.
func New[R any](onProgress ProgressFunc, onCompleted CompletedFunc[R]) *Executor[R] {
	done := make(chan struct{})
	close(done)

	return &Executor[R]{
		onProgress:  onProgress,
		onCompleted: onCompleted,
		done:        done,
	}
}

// Start launches work and returns immediately.
func (e *Executor[R]) Start(ctx context.Context, work Work[R]) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrBusy
	}

	e.cancel.Store(false)

	progress := make(chan string, progressBuffer)
	done := make(chan struct{})

	e.mu.Lock()
	e.progress = progress
	e.mu.Unlock()

	e.doneMu.Lock()
	e.done = done
	e.doneMu.Unlock()

	forwarded := make(chan struct{})

	go func() {
		defer close(forwarded)

		for msg := range progress {
			if e.onProgress != nil {
				e.onProgress(msg)
			}
		}
	}()

	go func() {
		defer close(done)

		result, err := e.run(ctx, work)

		e.mu.Lock()
		close(progress)
		e.progress = nil
		e.mu.Unlock()

		<-forwarded

		cancelled := errors.Is(err, ErrCancelled)
		if cancelled {
			err = nil
		}

		ctxlog.Debug(ctx, "executor", "detail", "work finished", "cancelled", cancelled, "error", err)

		e.running.Store(false)

		if e.onCompleted != nil {
			e.onCompleted(err, cancelled, result)
		}
	}()

	return nil
}

func (e *Executor[R]) run(ctx context.Context, work Work[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "executor", "detail", "work panicked", "panic", r)
			err = NewWorkPanicError(r)
		}
	}()

	return work(ctx, e)
}

// CancelAsync asks running work to stop. It does not wait.
func (e *Executor[R]) CancelAsync() {
	if e.running.Load() {
		e.cancel.Store(true)
	}
}

// CancellationPending reports whether CancelAsync was called during this run.
func (e *Executor[R]) CancellationPending() bool {
	return e.cancel.Load()
}

// ReportProgress queues msg for the progress callback. It is a no-op when idle.
// It blocks while the queue is full, so the progress callback must not call it.
func (e *Executor[R]) ReportProgress(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.progress == nil {
		return
	}

	e.progress <- msg
}

// Busy reports whether work is running. It turns false just before the completion callback.
func (e *Executor[R]) Busy() bool {
	return e.running.Load()
}

// Done is closed once the completion callback of the current run has returned.
func (e *Executor[R]) Done() <-chan struct{} {
	e.doneMu.Lock()
	defer e.doneMu.Unlock()

	return e.done
}

// Wait blocks until the current run completes or ctx ends. When pump is not
// nil it is called every interval while waiting.
func (e *Executor[R]) Wait(ctx context.Context, pump func(), interval time.Duration) error {
	done := e.Done()

	if pump == nil || interval <= 0 {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pump()
		}
	}
}
