// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(buf *bytes.Buffer, opts *slog.HandlerOptions, extra ...Option) *PrettyHandler {
	return NewPrettyHandler(opts, append([]Option{WithDestinationWriter(buf)}, extra...)...)
}

func record(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC), level, msg, 0)
	r.AddAttrs(attrs...)

	return r
}

func TestPrettyHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		rec      slog.Record
		contains []string
		absent   []string
	}{
		{
			name:     "message with attrs",
			rec:      record(slog.LevelInfo, "converted", slog.String("file", "a.svg")),
			contains: []string{"[03:04:05.006]", "INFO:", "converted", `"file"`, `"a.svg"`},
		},
		{
			name:   "no attrs prints nothing after message",
			rec:    record(slog.LevelWarn, "careful"),
			absent: []string{"{}"},
		},
		{
			name:     "empty attrs printed when requested",
			opts:     []Option{WithOutputEmptyAttrs()},
			rec:      record(slog.LevelWarn, "careful"),
			contains: []string{"{}"},
		},
		{
			name:     "colour adds escape codes",
			opts:     []Option{WithColour()},
			rec:      record(slog.LevelError, "boom"),
			contains: []string{"\033["},
		},
		{
			name:   "no colour by default",
			rec:    record(slog.LevelError, "boom", slog.Int("n", 1)),
			absent: []string{"\033["},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			h := newTestHandler(buf, nil, tt.opts...)
			require.NoError(t, h.Handle(context.Background(), tt.rec))

			out := buf.String()
			assert.True(t, strings.HasSuffix(out, "\n"))

			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}

			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestPrettyHandler_ReplaceAttrRemovesBuiltins(t *testing.T) {
	buf := &bytes.Buffer{}
	h := newTestHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	})

	require.NoError(t, h.Handle(context.Background(), record(slog.LevelInfo, "hi")))
	assert.Equal(t, "INFO: hi \n", buf.String())
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newTestHandler(buf, nil)).With("batch", "b1").WithGroup("item")
	logger.Warn("failed", "path", "x.svg")

	out := buf.String()
	assert.Contains(t, out, `"batch"`)
	assert.Contains(t, out, `"b1"`)
	assert.Contains(t, out, `"item"`)
	assert.Contains(t, out, `"x.svg"`)
}

func TestPrettyHandler_Enabled(t *testing.T) {
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelWarn)

	h := newTestHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: lv})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))
	err := h.Handle(context.Background(), record(slog.LevelInfo, "x"))
	require.ErrorIs(t, err, ErrIoWrite)
}

func TestPrettyHandler_Concurrent(t *testing.T) {
	buf := &safeBuffer{}
	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(buf)))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Warn("line", "i", i)
		}()
	}

	wg.Wait()
	assert.Equal(t, 20, strings.Count(buf.String(), "\n"))
}

type safeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.b.String()
}
