// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregator

import (
	"slices"
	"time"
)

// Status is the declared result of a batch.
type Status int

const (
	// StatusSuccessful means every visited file converted.
	StatusSuccessful Status = iota
	// StatusFailed means at least one file failed or the batch aborted on an error.
	StatusFailed
	// StatusCancelled means the batch stopped because cancellation was requested.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "Successful"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ItemResult is what happened to one source file.
type ItemResult struct {
	Path      string
	OK        bool
	Artifacts []string // set when OK
	Degraded  bool
	Detail    string // failure text when not OK
}

// Outcome is the aggregated result of one batch.
type Outcome struct {
	BatchID        string
	Source         string
	OutputDir      string // empty when artifacts were written next to their sources
	Visited        uint
	Converted      uint
	FailedItems    []string
	Cancelled      bool
	WriterDegraded bool
	Status         Status
	Err            string // terminal error text, if the batch ended on one
	Items          []ItemResult
	Started        time.Time
	Finished       time.Time
}

// Successful reports whether the batch converted everything it visited.
func (o Outcome) Successful() bool {
	return o.Status == StatusSuccessful
}

// Failed is the number of failed files.
func (o Outcome) Failed() int {
	return len(o.FailedItems)
}

// Duration is the wall time of the batch.
func (o Outcome) Duration() time.Duration {
	if o.Finished.IsZero() {
		return 0
	}

	return o.Finished.Sub(o.Started)
}

// Clone returns a deep copy.
func (o Outcome) Clone() Outcome {
	c := o
	c.FailedItems = slices.Clone(o.FailedItems)
	c.Items = slices.Clone(o.Items)

	for i := range c.Items {
		c.Items[i].Artifacts = slices.Clone(c.Items[i].Artifacts)
	}

	return c
}
