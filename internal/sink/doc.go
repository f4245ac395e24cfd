// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sink holds the console side of a batch: the line sink the
// orchestrator writes progress and summaries to, the terminal surface it may
// retitle, and an optional spinner fed by progress events.
package sink
