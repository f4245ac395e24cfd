// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries per-item conversion events from a running batch to
// interested hosts such as the terminal UI or a console progress bar.
//
// Reporting never blocks the batch worker: a full or closed reporter drops events.
package progress
