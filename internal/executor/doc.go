// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor runs one unit of work at a time on a background goroutine.
//
// Work observes cancellation cooperatively by polling CancellationPending and
// returning ErrCancelled. Progress messages are forwarded in order on a
// separate goroutine, and all of them are delivered before the completion
// callback runs. The callback fires exactly once per Start, including when
// the work panics.
package executor
