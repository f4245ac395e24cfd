// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns process termination signals into batch cancellation.
//
// The first signal of a kind asks the running batch to stop after the current
// file. A second signal of the same kind cancels the process context, which
// also kills any external converter that is still running.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
)

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New subscribes to sigs, or to the termination signals when none are given.
// Call Stop with the returned channel to unsubscribe.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 2)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "subscribing", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop unsubscribes ch from signal delivery.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}
