// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrSetup wraps every reason Convert refuses to start a batch.
	ErrSetup = errors.New("invalid conversion request")
	// ErrNilSink is returned when Convert is given no sink.
	ErrNilSink = errors.New("output sink is nil")
	// ErrNoTransform is returned when the orchestrator has no transform.
	ErrNoTransform = errors.New("no transform configured")
	// ErrPathCount is returned when a request carries the wrong number of paths for its kind.
	ErrPathCount = errors.New("wrong number of paths for request kind")
	// ErrUnknownKind is returned for a Kind outside the defined set.
	ErrUnknownKind = errors.New("unknown request kind")
	// ErrOutputDir is returned when the output directory cannot be created.
	ErrOutputDir = errors.New("cannot create output directory")
	// ErrCancelTimeout is returned by CancelWait when its context ends first.
	ErrCancelTimeout = errors.New("timed out waiting for cancellation")
)

// EscalatedError ends a batch: either a file failed while ContinueOnError was
// false, or the traversal itself failed.
type EscalatedError struct {
	Path string
	Err  error
}

// NewEscalatedError wraps err for path. path may be empty for traversal failures.
func NewEscalatedError(path string, err error) *EscalatedError {
	return &EscalatedError{Path: path, Err: err}
}

func (e *EscalatedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("batch aborted: %v", e.Err)
	}

	return fmt.Sprintf("batch aborted at %s: %v", e.Path, e.Err)
}

func (e *EscalatedError) Unwrap() error {
	return e.Err
}

func setupError(err error) error {
	return fmt.Errorf("%w: %w", ErrSetup, err)
}
