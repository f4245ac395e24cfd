// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
)

// Watch reads sigCh until ctx ends or sigCh is closed.
// The first signal of a given type calls soft, which may be nil.
// The second signal of the same type calls hard and returns.
func Watch(ctx context.Context, sigCh <-chan os.Signal, soft func(), hard context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, again := seen[sig]; again {
				ctxlog.Warn(ctx, "watchdog", "detail", "second signal received, terminating", "signal", sig.String())
				hard()

				return
			}

			seen[sig] = struct{}{}

			ctxlog.Warn(ctx, "watchdog", "detail", "signal received, stopping after the current file", "signal", sig.String())

			if soft != nil {
				soft()
			}
		}
	}
}
