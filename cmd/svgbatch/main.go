// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the svgbatch command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/svgbatch"
	"github.com/matt-FFFFFF/svgbatch/cmd"
	"github.com/matt-FFFFFF/svgbatch/cmd/cmdstate"
	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/svgbatch/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	// The first signal stops the batch after the current file. With no batch
	// running it ends the process like the second one does.
	soft := func() {
		if !cmdstate.SoftCancel() {
			cancel()
		}
	}

	go signalbroker.Watch(ctx, sigCh, soft, cancel)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", svgbatch.Version, svgbatch.Commit)

	err := cmd.RootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Debug("command completed successfully")
}
