// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/svgbatch/internal/teereader"
)

const (
	maxOutputSize = 8 * 1024 * 1024 // 8MB per stream
	maxDetailLen  = 200
)

var (
	// ErrOutputOverflow is returned when a converter writes more than the capture limit.
	ErrOutputOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxOutputSize)
	// ErrCouldNotStartProcess is returned when the converter could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when an operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToReadBuffer is returned when reading a pipe fails.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrProcessKilled is returned when the context ended while the converter ran.
	ErrProcessKilled = errors.New("process killed")
	// ErrNonZeroExit is returned when the converter exits unsuccessfully.
	ErrNonZeroExit = errors.New("non-zero exit code")
)

type processResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// LastErr is the last non-blank stderr line, cut to maxDetailLen.
	LastErr string
}

// runProcess starts path with args, captures stdout and stderr and waits for it.
// The process is killed if ctx ends first.
func runProcess(ctx context.Context, path string, args []string, env []string) (*processResult, error) {
	logger := ctxlog.Logger(ctx).With("process", filepath.Base(path))

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}
	defer rOut.Close() //nolint:errcheck

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = wOut.Close()
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}
	defer rErr.Close() //nolint:errcheck

	stdin, err := os.Open(os.DevNull)
	if err != nil {
		_ = wOut.Close()
		_ = wErr.Close()

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}
	defer stdin.Close() //nolint:errcheck

	logger.Debug("starting process", "path", path, "args", args)

	ps, err := os.StartProcess(path, slices.Concat([]string{filepath.Base(path)}, args), &os.ProcAttr{
		Env:   env,
		Files: []*os.File{stdin, wOut, wErr},
	})

	// The child holds its own copies; closing ours lets the readers see EOF.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	var (
		wg             sync.WaitGroup
		stdout, stderr []byte
		outErr, errErr error
	)

	errTail := teereader.New(rErr)

	wg.Add(2)

	go func() {
		defer wg.Done()
		stdout, outErr = readAllUpToMax(ctx, rOut, maxOutputSize)
	}()

	go func() {
		defer wg.Done()
		stderr, errErr = readAllUpToMax(ctx, errTail, maxOutputSize)
	}()

	done := make(chan struct{})
	watchdogDone := make(chan struct{})

	go func() {
		defer close(watchdogDone)

		select {
		case <-ctx.Done():
			logger.Info("context done, killing process", "pid", ps.Pid)
			killPs(ctx, ps)
		case <-done:
		}
	}()

	state, waitErr := ps.Wait()

	close(done)
	<-watchdogDone
	wg.Wait()

	res := &processResult{
		ExitCode: state.ExitCode(),
		Stdout:   stdout,
		Stderr:   stderr,
		LastErr:  errTail.LastLine(maxDetailLen),
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "stdout", len(stdout), "stderr", len(stderr))

	err = errors.Join(waitErr, outErr, errErr)
	if ctx.Err() != nil {
		err = errors.Join(err, ErrProcessKilled, ctx.Err())
	}

	return res, err
}

// readAllUpToMax keeps at most maxSize bytes and discards the rest so the
// writer never blocks on a full pipe.
func readAllUpToMax(ctx context.Context, r io.Reader, maxSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxSize+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return buf.Bytes(), errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxSize {
		discarded, _ := io.Copy(io.Discard, r)
		ctxlog.Debug(ctx, "output truncated", "kept", maxSize, "discarded", discarded+n-maxSize)

		return buf.Bytes()[:maxSize], ErrOutputOverflow
	}

	return buf.Bytes(), nil
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}
