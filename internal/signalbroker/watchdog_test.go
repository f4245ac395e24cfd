// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatch(t *testing.T, sigCh chan os.Signal) (context.Context, *atomic.Int32, <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	soft := &atomic.Int32{}
	done := make(chan struct{})

	go func() {
		defer close(done)
		Watch(ctx, sigCh, func() { soft.Add(1) }, cancel)
	}()

	return ctx, soft, done
}

func TestWatch_FirstSignalIsSoft(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	ctx, soft, done := startWatch(t, sigCh)

	sigCh <- os.Interrupt

	assert.Eventually(t, func() bool { return soft.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, ctx.Err(), "first signal must not cancel the context")

	close(sigCh)
	<-done
}

func TestWatch_SecondSignalCancels(t *testing.T) {
	sigCh := make(chan os.Signal, 2)
	ctx, soft, done := startWatch(t, sigCh)

	sigCh <- os.Interrupt
	sigCh <- os.Interrupt

	<-done
	assert.Error(t, ctx.Err())
	assert.Equal(t, int32(1), soft.Load())
}

func TestWatch_DifferentSignalsAreSoft(t *testing.T) {
	sigCh := make(chan os.Signal, 2)
	ctx, soft, done := startWatch(t, sigCh)

	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM

	assert.Eventually(t, func() bool { return soft.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, ctx.Err())

	close(sigCh)
	<-done
}

func TestWatch_ReturnsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		Watch(ctx, make(chan os.Signal), nil, cancel)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after context cancellation")
	}
}

func TestNewAndStop(t *testing.T) {
	ch := New(context.Background(), syscall.SIGHUP)
	assert.Equal(t, 2, cap(ch))
	Stop(ch)
}
