// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package aggregator accumulates per-file results of a conversion batch and
// renders the end of batch summary.
//
// An Aggregator is written by the batch worker only and read once the batch
// has completed, so it carries no locking of its own.
package aggregator
