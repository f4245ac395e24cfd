// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package orchestrator drives a batch conversion of one file, a list of files
// or a directory tree.
//
// Convert validates the request on the calling goroutine, starts the batch on
// a background executor and returns at once. The batch visits each file,
// hands it to a transform.Transformer and records the result. When it ends the
// single subscribed Observer is told whether it succeeded, and a summary is
// written to the sink passed to Convert.
//
// Cancellation is cooperative: the flag is checked before every file and
// between directory levels, never during a transform. Cancel blocks until the
// batch has completed, calling an optional pump function while it waits.
//
// An Orchestrator runs at most one batch at a time. Convert returns false
// while a batch is in flight.
package orchestrator
