// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregator

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/svgbatch/internal/color"
)

var (
	// ErrWriteSummary is returned when the summary cannot be written.
	ErrWriteSummary = errors.New("failed to write summary")
	// ErrWriteGob is returned when an outcome cannot be encoded.
	ErrWriteGob = errors.New("failed to write binary outcome")
	// ErrReadGob is returned when an outcome cannot be decoded.
	ErrReadGob = errors.New("failed to read binary outcome")
)

// WriteSummary writes the human readable end of batch report.
//
// Without failures the first line is "Total number of files converted: N".
// With failures it is "Total successful: N" and "Total failed: M" followed by
// the failed paths. The result tag and the output directory always follow.
func WriteSummary(w io.Writer, o Outcome) error {
	var sb strings.Builder

	if len(o.FailedItems) == 0 {
		fmt.Fprintf(&sb, "Total number of files converted: %d\n", o.Converted)
	} else {
		fmt.Fprintf(&sb, "Total successful: %d\n", o.Converted)
		fmt.Fprintf(&sb, "Total failed: %d\n", len(o.FailedItems))

		for _, p := range o.FailedItems {
			fmt.Fprintf(&sb, "  %s %s\n", color.Colorize("✗", color.FgRed), p)
		}
	}

	fmt.Fprintf(&sb, "Conversion result: %s\n", statusTag(o.Status))

	dir := o.OutputDir
	if dir == "" {
		dir = "alongside source files"
	}

	fmt.Fprintf(&sb, "Output directory: %s\n", dir)

	if o.WriterDegraded {
		fmt.Fprintf(&sb, "%s\n", color.Colorize("Writer degraded: fell back to alternate strategy", color.FgYellow))
	}

	if o.Err != "" {
		fmt.Fprintf(&sb, "%s %s\n", color.Colorize("➜ Error:", color.FgRed), o.Err)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	return nil
}

func statusTag(s Status) string {
	switch s {
	case StatusSuccessful:
		return color.Colorize(s.String(), color.Bold, color.FgGreen)
	case StatusFailed:
		return color.Colorize(s.String(), color.Bold, color.FgRed)
	case StatusCancelled:
		return color.Colorize(s.String(), color.Bold, color.FgYellow)
	default:
		return s.String()
	}
}

// WriteBinary encodes o with encoding/gob.
func WriteBinary(w io.Writer, o Outcome) error {
	if err := gob.NewEncoder(w).Encode(o); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadBinary decodes an outcome written by WriteBinary.
func ReadBinary(r io.Reader) (Outcome, error) {
	var o Outcome
	if err := gob.NewDecoder(r).Decode(&o); err != nil {
		return Outcome{}, errors.Join(ErrReadGob, err)
	}

	return o, nil
}
