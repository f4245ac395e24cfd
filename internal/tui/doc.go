// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a Terminal User Interface for watching a conversion
// batch. It shows a live tree of the directories and files being converted
// with a status icon per file, the error of each failed file and running
// totals.
//
// The TUI receives per-file progress events through a Reporter and batch
// lifecycle notifications as an orchestrator Observer. Pressing 'c' requests
// cooperative cancellation without blocking the interface.
package tui
