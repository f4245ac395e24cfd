// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// ErrItemFailed wraps every per-file error collected by Failure.
var ErrItemFailed = errors.New("item failed")

// Aggregator collects the results of one batch at a time.
type Aggregator struct {
	outcome Outcome
	errs    *multierror.Error
	now     func() time.Time
}

// New returns an empty aggregator.
func New() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Reset clears all state and starts a new batch.
func (a *Aggregator) Reset(source, outputDir string) {
	a.outcome = Outcome{
		BatchID:   uuid.NewString(),
		Source:    source,
		OutputDir: outputDir,
		Started:   a.now(),
	}
	a.errs = nil
}

// Visit records that a file was reached, before its result is known.
func (a *Aggregator) Visit() {
	a.outcome.Visited++
}

// Success records a converted file. degraded is OR-ed into the batch flag.
func (a *Aggregator) Success(path string, artifacts []string, degraded bool) {
	a.outcome.Converted++
	a.outcome.WriterDegraded = a.outcome.WriterDegraded || degraded
	a.outcome.Items = append(a.outcome.Items, ItemResult{
		Path:      path,
		OK:        true,
		Artifacts: artifacts,
		Degraded:  degraded,
	})
}

// Failure records a file that could not be converted.
func (a *Aggregator) Failure(path string, err error) {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}

	a.outcome.FailedItems = append(a.outcome.FailedItems, path)
	a.outcome.Items = append(a.outcome.Items, ItemResult{Path: path, Detail: detail})
	a.errs = multierror.Append(a.errs, fmt.Errorf("%w: %s: %w", ErrItemFailed, path, err))
}

// Err returns every per-file error collected so far, or nil.
func (a *Aggregator) Err() error {
	return a.errs.ErrorOrNil()
}

// Converted is the running success count.
func (a *Aggregator) Converted() uint {
	return a.outcome.Converted
}

// Finalize stamps the end of the batch, derives its status and returns a copy of the outcome.
func (a *Aggregator) Finalize(terminal error, cancelled bool) Outcome {
	a.outcome.Finished = a.now()
	a.outcome.Cancelled = cancelled

	if terminal != nil && !cancelled {
		a.outcome.Err = terminal.Error()
	}

	switch {
	case cancelled:
		a.outcome.Status = StatusCancelled
	case terminal != nil || len(a.outcome.FailedItems) > 0:
		a.outcome.Status = StatusFailed
	default:
		a.outcome.Status = StatusSuccessful
	}

	return a.outcome.Clone()
}
