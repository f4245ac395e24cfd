// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	csi   = "\033["
	sgr   = "m"
	reset = csi + "0" + sgr
)

// Code is an SGR parameter.
type Code int

// Attributes.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground colours.
const (
	FgRed Code = iota + 31
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Hi-intensity foreground colours.
const (
	FgHiRed Code = iota + 91
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled atomic.Bool

func init() {
	enabled.Store(capable(term.IsTerminal(int(os.Stdout.Fd()))))
}

// Enabled reports whether Colorize emits escape codes.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled overrides terminal detection, e.g. for --no-color or in tests.
// It returns the previous value.
func SetEnabled(v bool) bool {
	return enabled.Swap(v)
}

// Colorize wraps str in the given codes followed by a reset.
// It returns str unchanged when colour is disabled.
func Colorize(str string, codes ...Code) string {
	if !Enabled() {
		return str
	}

	return Wrap(str, codes...)
}

// Wrap is Colorize without the Enabled check.
func Wrap(str string, codes ...Code) string {
	if len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(csi) + len(reset) + 4*len(codes))
	sb.WriteString(csi)

	for i, c := range codes {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.Itoa(int(c)))
	}

	sb.WriteString(sgr)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func capable(isTerminal bool) bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return isTerminal
}
