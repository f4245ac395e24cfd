// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/svgbatch/internal/executor"
	"github.com/matt-FFFFFF/svgbatch/internal/itemsource"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
)

// run is the batch body. It executes on the executor goroutine and is the only
// writer of o.agg.
func (o *Orchestrator) run(ctx context.Context, c executor.Control, b *batch) error {
	stop := func() bool {
		return c.CancellationPending() || ctx.Err() != nil
	}

	for item, err := range b.src.Items(stop) {
		if err != nil {
			if errors.Is(err, itemsource.ErrCancelled) {
				return executor.ErrCancelled
			}

			return NewEscalatedError("", err)
		}

		switch item.Kind {
		case itemsource.KindDirectory:
			if err := o.enterDirectory(ctx, c, b, item); err != nil {
				return err
			}
		case itemsource.KindFile:
			if stop() {
				return executor.ErrCancelled
			}

			if err := o.convertFile(ctx, c, b, item); err != nil {
				return err
			}
		}
	}

	return nil
}

func (o *Orchestrator) convertFile(ctx context.Context, c executor.Control, b *batch, item itemsource.Item) error {
	logger := ctxlog.Logger(ctx).With("source", item.Path)
	outDir := item.OutputDir(b.outputDir)

	o.agg.Visit()
	o.reporter.Report(progress.New(progress.EventItemStarted, item.Path, "converting"))

	if err := o.fs.MkdirAll(outDir, 0o755); err != nil {
		return o.fail(c, b, item, fmt.Errorf("%w: %s: %w", ErrOutputDir, outDir, err))
	}

	art, err := o.transformer.Transform(ctx, item.Path, outDir, b.req.Options)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug("transform interrupted", "error", err)
			return executor.ErrCancelled
		}

		logger.Debug("transform failed", "error", err)

		return o.fail(c, b, item, err)
	}

	var (
		paths    []string
		degraded bool
	)

	if art != nil {
		paths = art.Paths
		degraded = art.Degraded
	}

	o.agg.Success(item.Path, paths, degraded)
	logger.Debug("converted", "artifacts", paths, "degraded", degraded)

	if b.req.IncludeSecurity {
		for _, p := range paths {
			if err := copySecurity(o.fs, item.Path, p); err != nil {
				c.ReportProgress(fmt.Sprintf("Warning: could not copy security from %s to %s: %v", item.Path, p, err))
			}
		}
	}

	ev := progress.New(progress.EventItemConverted, item.Path, "converted")
	ev.Data.Artifacts = paths
	ev.Data.Degraded = degraded
	o.reporter.Report(ev)

	return nil
}

// fail records a failed file and decides whether the batch goes on.
func (o *Orchestrator) fail(c executor.Control, b *batch, item itemsource.Item, err error) error {
	o.agg.Failure(item.Path, err)
	c.ReportProgress(fmt.Sprintf("Failed to convert %s: %v", item.Path, err))

	ev := progress.New(progress.EventItemFailed, item.Path, err.Error())
	ev.Data.Error = err
	o.reporter.Report(ev)

	if !b.req.ContinueOnError {
		return NewEscalatedError(item.Path, err)
	}

	return nil
}

// enterDirectory creates the mirrored output directory before the tree
// descends into item.
func (o *Orchestrator) enterDirectory(ctx context.Context, c executor.Control, b *batch, item itemsource.Item) error {
	mirror := item.MirrorDir(b.outputDir)

	if err := o.fs.MkdirAll(mirror, 0o755); err != nil {
		return NewEscalatedError(item.Path, fmt.Errorf("%w: %s: %w", ErrOutputDir, mirror, err))
	}

	if b.req.IncludeSecurity && mirror != item.Path {
		if err := copySecurity(o.fs, item.Path, mirror); err != nil {
			c.ReportProgress(fmt.Sprintf("Warning: could not copy security from %s to %s: %v", item.Path, mirror, err))
		}
	}

	ctxlog.Debug(ctx, "directory", "source", item.Path, "output", mirror)
	o.reporter.Report(progress.New(progress.EventDirectory, item.Path, mirror))

	return nil
}
