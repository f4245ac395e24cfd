// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes to stderr through PrettyHandler so that stdout
// stays free for conversion summaries. Its level is read from the
// environment variable named after the executable, e.g. SVGBATCH_LOG_LEVEL.
package ctxlog
