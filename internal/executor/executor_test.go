// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type completion struct {
	err       error
	cancelled bool
	result    int
}

type recorder struct {
	mu          sync.Mutex
	progress    []string
	completions []completion
	progressAt  int // len(progress) when the completion fired
}

func (r *recorder) onProgress(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = append(r.progress, msg)
}

func (r *recorder) onCompleted(err error, cancelled bool, result int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progressAt = len(r.progress)
	r.completions = append(r.completions, completion{err, cancelled, result})
}

func (r *recorder) snapshot() ([]string, []completion, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.progress...), append([]completion(nil), r.completions...), r.progressAt
}

func TestExecutor_Success(t *testing.T) {
	rec := &recorder{}
	ex := New(rec.onProgress, rec.onCompleted)

	err := ex.Start(t.Context(), func(_ context.Context, c Control) (int, error) {
		for i := range 200 {
			c.ReportProgress(fmt.Sprintf("item %d", i))
		}

		return 42, nil
	})
	require.NoError(t, err)
	require.NoError(t, ex.Wait(t.Context(), nil, 0))

	progress, completions, progressAt := rec.snapshot()
	require.Len(t, completions, 1)
	assert.Equal(t, completion{result: 42}, completions[0])
	require.Len(t, progress, 200)
	assert.Equal(t, "item 0", progress[0])
	assert.Equal(t, "item 199", progress[199])
	assert.Equal(t, 200, progressAt, "all progress delivered before completion")
	assert.False(t, ex.Busy())
}

func TestExecutor_StartReturnsImmediately(t *testing.T) {
	release := make(chan struct{})
	ex := New[int](nil, nil)

	require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) {
		<-release
		return 0, nil
	}))

	assert.True(t, ex.Busy())
	assert.ErrorIs(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) { return 0, nil }), ErrBusy)

	close(release)
	require.NoError(t, ex.Wait(t.Context(), nil, 0))
}

func TestExecutor_Error(t *testing.T) {
	rec := &recorder{}
	ex := New(rec.onProgress, rec.onCompleted)
	errBoom := errors.New("boom")

	require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) {
		return 1, errBoom
	}))
	require.NoError(t, ex.Wait(t.Context(), nil, 0))

	_, completions, _ := rec.snapshot()
	require.Len(t, completions, 1)
	assert.ErrorIs(t, completions[0].err, errBoom)
	assert.False(t, completions[0].cancelled)
}

func TestExecutor_Panic(t *testing.T) {
	rec := &recorder{}
	ex := New(rec.onProgress, rec.onCompleted)
	errInner := errors.New("inner")

	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "kaboom"},
		{name: "error", value: errInner},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) {
				panic(tt.value)
			}))
			require.NoError(t, ex.Wait(t.Context(), nil, 0))

			_, completions, _ := rec.snapshot()
			require.Len(t, completions, i+1)

			var pe *WorkPanicError
			require.ErrorAs(t, completions[i].err, &pe)
			assert.Equal(t, tt.value, pe.Value)
			assert.NotEmpty(t, pe.Stack)
			assert.Contains(t, pe.Error(), "work panic")
		})
	}

	_, completions, _ := rec.snapshot()
	assert.ErrorIs(t, completions[1].err, errInner)
}

func TestExecutor_CooperativeCancel(t *testing.T) {
	rec := &recorder{}
	ex := New(rec.onProgress, rec.onCompleted)
	started := make(chan struct{})

	require.NoError(t, ex.Start(t.Context(), func(_ context.Context, c Control) (int, error) {
		close(started)

		n := 0
		for !c.CancellationPending() {
			n++
			time.Sleep(time.Millisecond)
		}

		return n, fmt.Errorf("stopped after %d: %w", n, ErrCancelled)
	}))

	<-started
	ex.CancelAsync()
	assert.True(t, ex.CancellationPending())

	pumped := &atomic.Int32{}
	require.NoError(t, ex.Wait(t.Context(), func() { pumped.Add(1) }, time.Millisecond))

	_, completions, _ := rec.snapshot()
	require.Len(t, completions, 1)
	assert.True(t, completions[0].cancelled)
	assert.NoError(t, completions[0].err)
}

func TestExecutor_CancelFlagResetsOnStart(t *testing.T) {
	ex := New[int](nil, nil)
	ex.CancelAsync()
	assert.False(t, ex.CancellationPending(), "cancel while idle is ignored")

	var seen atomic.Bool

	require.NoError(t, ex.Start(t.Context(), func(_ context.Context, c Control) (int, error) {
		seen.Store(c.CancellationPending())
		return 0, nil
	}))
	require.NoError(t, ex.Wait(t.Context(), nil, 0))
	assert.False(t, seen.Load())
}

func TestExecutor_WaitPumpsUntilDone(t *testing.T) {
	ex := New[int](nil, nil)
	release := make(chan struct{})

	require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) {
		<-release
		return 0, nil
	}))

	pumped := &atomic.Int32{}
	pump := func() {
		if pumped.Add(1) == 3 {
			close(release)
		}
	}

	require.NoError(t, ex.Wait(t.Context(), pump, time.Millisecond))
	assert.GreaterOrEqual(t, pumped.Load(), int32(3))
}

func TestExecutor_WaitHonoursContext(t *testing.T) {
	ex := New[int](nil, nil)
	release := make(chan struct{})

	require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) {
		<-release
		return 0, nil
	}))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, ex.Wait(ctx, func() {}, time.Millisecond), context.DeadlineExceeded)

	close(release)
	require.NoError(t, ex.Wait(t.Context(), nil, 0))
}

func TestExecutor_IdleWaitAndProgress(t *testing.T) {
	ex := New[int](nil, nil)
	ex.ReportProgress("ignored")
	assert.NoError(t, ex.Wait(t.Context(), nil, 0))
}

func TestExecutor_RestartFromCompletion(t *testing.T) {
	var (
		ex     *Executor[int]
		second = make(chan error, 1)
		runs   atomic.Int32
	)

	ex = New(nil, func(error, bool, int) {
		if runs.Add(1) == 1 {
			second <- ex.Start(context.Background(), func(context.Context, Control) (int, error) { return 0, nil })
		}
	})

	require.NoError(t, ex.Start(t.Context(), func(context.Context, Control) (int, error) { return 0, nil }))
	require.NoError(t, <-second, "executor is idle again when the callback runs")

	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)
	<-ex.Done()
}
