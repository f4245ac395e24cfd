// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// maxPartial bounds the unterminated line kept between reads.
const maxPartial = 4096

// Reader passes reads through unchanged and tracks the last non-blank line.
// It is safe for concurrent use.
type Reader struct {
	r       io.Reader
	mu      sync.RWMutex
	last    string
	partial []byte
}

// New wraps r.
func New(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read implements io.Reader.
func (lr *Reader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	if n > 0 {
		lr.mu.Lock()
		lr.consume(p[:n])
		lr.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

// consume must be called with the write lock held.
func (lr *Reader) consume(data []byte) {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}

		lr.partial = append(lr.partial, data[:i]...)
		lr.commit()
		data = data[i+1:]
	}

	room := maxPartial - len(lr.partial)
	if room <= 0 {
		return
	}

	if len(data) > room {
		data = data[:room]
	}

	lr.partial = append(lr.partial, data...)
}

func (lr *Reader) commit() {
	if line := strings.TrimSpace(string(lr.partial)); line != "" {
		lr.last = line
	}

	lr.partial = lr.partial[:0]
}

// LastLine returns the last non-blank line read so far. An unterminated final
// line counts once it is non-blank. When limit > 0 longer lines are cut to
// limit runes ending in "...".
func (lr *Reader) LastLine(limit int) string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()

	line := lr.last
	if p := strings.TrimSpace(string(lr.partial)); p != "" {
		line = p
	}

	if r := []rune(line); limit > 3 && len(r) > limit {
		line = string(r[:limit-3]) + "..."
	}

	return line
}
